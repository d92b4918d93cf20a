package heartbeat

import (
	"context"
	"fmt"
	"time"

	"signage/services/registry"
)

// Expired reports whether a heartbeat is stale against the threshold.
func Expired(last, now time.Time, threshold time.Duration) bool {
	return now.Sub(last) > threshold
}

// Monitor records screen liveness and evaluates staleness.
type Monitor interface {
	MarkAlive(ctx context.Context, screenID string, ts time.Time) error
	ExpiredAt(last, now time.Time) bool
}

// DefaultMonitor persists heartbeat timestamps through the registry so
// liveness survives restarts. The threshold comes from configuration.
type DefaultMonitor struct {
	Registry  registry.ScreenRegistry
	Threshold time.Duration
}

// MarkAlive updates the screen's lastHeartbeat.
func (m *DefaultMonitor) MarkAlive(ctx context.Context, screenID string, ts time.Time) error {
	screen, err := m.Registry.GetScreen(ctx, screenID)
	if err != nil {
		return fmt.Errorf("failed to load screen %s for heartbeat: %w", screenID, err)
	}
	screen.LastHeartbeat = ts
	if err := m.Registry.PutScreen(ctx, screen); err != nil {
		return fmt.Errorf("failed to persist heartbeat for screen %s: %w", screenID, err)
	}
	return nil
}

// ExpiredAt applies the configured threshold to the pure predicate.
func (m *DefaultMonitor) ExpiredAt(last, now time.Time) bool {
	return Expired(last, now, m.Threshold)
}
