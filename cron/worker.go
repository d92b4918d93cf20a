package cron

import (
	"context"
	"log"
	"time"

	"signage/config"
	"signage/services/fleet"

	"github.com/hibiken/asynq"
)

const TypeFleetSnapshot = "fleet:snapshot"

// InitSnapshotWorker runs the async worker in background. The snapshot
// task recomputes the fleet view and logs its counts, giving operators
// a periodic record of fleet health independent of dashboard requests.
func InitSnapshotWorker(aggregator fleet.Aggregator) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeFleetSnapshot, handleSnapshotTask(aggregator))

	go func() {
		log.Println("[SnapshotWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SnapshotWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SnapshotWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go enqueueSnapshots(redisOpts)
}

func handleSnapshotTask(aggregator fleet.Aggregator) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		view, err := aggregator.BuildFleetView(ctx)
		if err != nil {
			log.Printf("[SnapshotHandler] fleet snapshot failed: %v", err)
			return err
		}
		log.Printf("[SnapshotHandler] fleet snapshot: total=%d critical=%d",
			view.Counts.Total, view.Counts.Critical)
		return nil
	}
}

// enqueueSnapshots submits a snapshot task on the configured interval.
func enqueueSnapshots(redisOpts asynq.RedisClientOpt) {
	client := asynq.NewClient(redisOpts)
	defer client.Close()

	ticker := time.NewTicker(config.SnapshotInterval())
	defer ticker.Stop()

	for range ticker.C {
		task := asynq.NewTask(TypeFleetSnapshot, nil)
		if _, err := client.Enqueue(task); err != nil {
			log.Printf("[SnapshotWorker] failed to enqueue snapshot task: %v", err)
		}
	}
}
