// File: utils/redis.go
package utils

import (
	"context"
	"log"
	"time"

	"signage/config"

	"github.com/go-redis/redis/v8"
)

// FleetStoreClient is the Redis client backing the screen registry.
var FleetStoreClient *redis.Client

// InitFleetStore initializes the Redis client for the fleet registry
// (using DB from AppConfig).
func InitFleetStore() {
	FleetStoreClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisFleetDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := FleetStoreClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Fleet Store): %v", err)
	}
}

// GetFleetStoreClient returns the fleet store client.
func GetFleetStoreClient() *redis.Client {
	if FleetStoreClient == nil {
		InitFleetStore()
	}
	return FleetStoreClient
}
