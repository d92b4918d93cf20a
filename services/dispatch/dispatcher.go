package dispatch

import (
	"context"
	"fmt"

	"signage/services/presence"
	"signage/services/registry"

	"go.uber.org/zap"
)

// Transport is the outbound side of the screen connection layer.
type Transport interface {
	// SendToSession delivers a named event to one attached session.
	SendToSession(sessionID, event string, payload interface{}) error
	// BroadcastToGroup delivers a named event to every session whose
	// screen carried the group label when it attached.
	BroadcastToGroup(groupID, event string, payload interface{})
}

// ReloadFailure reports a single failed target of a reload batch.
type ReloadFailure struct {
	ScreenID string `json:"screenId"`
	Reason   string `json:"reason"`
}

// Dispatcher addresses events to screens by group or by explicit id.
type Dispatcher interface {
	// Broadcast is fire-and-forget, at-most-once: a currently-offline
	// screen simply misses the event. No queue, no replay.
	Broadcast(groupID, event string, payload interface{})
	// ReloadByScreenIDs pushes a reload command to each screen's current
	// session. A failure for one id never aborts the rest; each failure
	// is reported individually.
	ReloadByScreenIDs(ctx context.Context, ids []string) []ReloadFailure
}

// DefaultDispatcher is the production implementation.
type DefaultDispatcher struct {
	Registry  registry.ScreenRegistry
	Presence  presence.Tracker
	Transport Transport
	Logger    *zap.Logger
}

func (d *DefaultDispatcher) Broadcast(groupID, event string, payload interface{}) {
	d.Transport.BroadcastToGroup(groupID, event, payload)
	if d.Logger != nil {
		d.Logger.Debug("broadcast dispatched",
			zap.String("group", groupID), zap.String("event", event))
	}
}

func (d *DefaultDispatcher) ReloadByScreenIDs(ctx context.Context, ids []string) []ReloadFailure {
	var failures []ReloadFailure
	for _, id := range ids {
		if err := d.reloadOne(ctx, id); err != nil {
			failures = append(failures, ReloadFailure{ScreenID: id, Reason: err.Error()})
			if d.Logger != nil {
				d.Logger.Warn("reload failed for screen",
					zap.String("screenId", id), zap.Error(err))
			}
		}
	}
	return failures
}

func (d *DefaultDispatcher) reloadOne(ctx context.Context, id string) error {
	if _, err := d.Registry.GetScreen(ctx, id); err != nil {
		return fmt.Errorf("failed to resolve screen: %w", err)
	}
	sessionID, ok := d.Presence.Lookup(id)
	if !ok {
		// Offline screens miss the reload; that is the documented
		// best-effort contract, not a failure.
		return nil
	}
	if err := d.Transport.SendToSession(sessionID, "reload", nil); err != nil {
		return fmt.Errorf("failed to push reload: %w", err)
	}
	return nil
}
