package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisFleetDB  int    `mapstructure:"REDIS_FLEET_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Heartbeat expiry threshold in seconds. A screen whose last
	// heartbeat is older than this is reported as critical.
	HeartbeatThresholdSeconds int `mapstructure:"HEARTBEAT_THRESHOLD_SECONDS"`

	// Interval in seconds between background fleet snapshot tasks.
	SnapshotIntervalSeconds int `mapstructure:"SNAPSHOT_INTERVAL_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_FLEET_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("HEARTBEAT_THRESHOLD_SECONDS", 900)
	viper.SetDefault("SNAPSHOT_INTERVAL_SECONDS", 300)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// HeartbeatThreshold returns the configured expiry threshold as a duration.
func HeartbeatThreshold() time.Duration {
	return time.Duration(AppConfig.HeartbeatThresholdSeconds) * time.Second
}

// SnapshotInterval returns the configured fleet snapshot interval.
func SnapshotInterval() time.Duration {
	return time.Duration(AppConfig.SnapshotIntervalSeconds) * time.Second
}
