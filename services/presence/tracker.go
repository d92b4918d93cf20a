package presence

import "sync"

// Tracker binds a screen id to its current transport session while the
// screen is connected. The table is process-local and non-durable: it
// is lost on restart and is not visible across instances, so the
// service is single-instance by design.
type Tracker interface {
	// Attach binds the screen to a session. A screen has at most one
	// live session; a new connection silently replaces a prior one.
	Attach(screenID, sessionID string)
	// Detach removes the binding. Best-effort: an abrupt disconnect may
	// skip it without corrupting correctness, because broadcasts target
	// transport-level group membership directly.
	Detach(screenID string)
	// Lookup returns the current session for the screen, if any.
	Lookup(screenID string) (string, bool)
}

// InMemoryTracker is the production implementation.
type InMemoryTracker struct {
	mu       sync.RWMutex
	sessions map[string]string
}

func NewInMemoryTracker() *InMemoryTracker {
	return &InMemoryTracker{sessions: make(map[string]string)}
}

func (t *InMemoryTracker) Attach(screenID, sessionID string) {
	t.mu.Lock()
	t.sessions[screenID] = sessionID
	t.mu.Unlock()
}

func (t *InMemoryTracker) Detach(screenID string) {
	t.mu.Lock()
	delete(t.sessions, screenID)
	t.mu.Unlock()
}

func (t *InMemoryTracker) Lookup(screenID string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sessionID, ok := t.sessions[screenID]
	return sessionID, ok
}
