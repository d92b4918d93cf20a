package dispatch

import (
	"context"
	"errors"
	"testing"

	"signage/models"
	"signage/services/presence"
	"signage/services/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	screens map[string]*models.Screen
	failIDs map[string]error
}

func (f *fakeRegistry) GetScreen(_ context.Context, id string) (*models.Screen, error) {
	if err, ok := f.failIDs[id]; ok {
		return nil, err
	}
	screen, ok := f.screens[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	return screen, nil
}

func (f *fakeRegistry) PutScreen(_ context.Context, screen *models.Screen) error {
	f.screens[screen.ID] = screen
	return nil
}

func (f *fakeRegistry) TenantScreens(context.Context, string) ([]string, error) {
	return nil, nil
}

func (f *fakeRegistry) LookupToken(context.Context, string) (string, error) {
	return "", registry.ErrNotFound
}

func (f *fakeRegistry) IndexToken(context.Context, string, string) error {
	return nil
}

type sentEvent struct {
	sessionID string
	groupID   string
	event     string
}

type fakeTransport struct {
	sent         []sentEvent
	failSessions map[string]error
}

func (f *fakeTransport) SendToSession(sessionID, event string, _ interface{}) error {
	if err, ok := f.failSessions[sessionID]; ok {
		return err
	}
	f.sent = append(f.sent, sentEvent{sessionID: sessionID, event: event})
	return nil
}

func (f *fakeTransport) BroadcastToGroup(groupID, event string, _ interface{}) {
	f.sent = append(f.sent, sentEvent{groupID: groupID, event: event})
}

func newDispatcher() (*DefaultDispatcher, *fakeRegistry, *presence.InMemoryTracker, *fakeTransport) {
	reg := &fakeRegistry{
		screens: map[string]*models.Screen{
			"a": {ID: "a", Groups: []string{"g"}},
			"b": {ID: "b", Groups: []string{"g"}},
			"c": {ID: "c"},
		},
		failIDs: map[string]error{},
	}
	tracker := presence.NewInMemoryTracker()
	tr := &fakeTransport{failSessions: map[string]error{}}
	return &DefaultDispatcher{Registry: reg, Presence: tracker, Transport: tr}, reg, tracker, tr
}

func TestReloadByScreenIDs_PartialFailure(t *testing.T) {
	d, reg, tracker, tr := newDispatcher()
	tracker.Attach("a", "sess-a")
	tracker.Attach("c", "sess-c")
	reg.failIDs["b"] = &registry.StoreError{Op: "HGET", Err: errors.New("connection refused")}

	failures := d.ReloadByScreenIDs(context.Background(), []string{"a", "b", "c"})

	// "b" alone is reported; "a" and "c" still got their reload.
	require.Len(t, failures, 1)
	assert.Equal(t, "b", failures[0].ScreenID)

	var sessions []string
	for _, s := range tr.sent {
		assert.Equal(t, "reload", s.event)
		sessions = append(sessions, s.sessionID)
	}
	assert.ElementsMatch(t, []string{"sess-a", "sess-c"}, sessions)
}

func TestReloadByScreenIDs_OfflineScreenIsSkipped(t *testing.T) {
	d, _, tracker, tr := newDispatcher()
	tracker.Attach("a", "sess-a")
	// "c" is registered but not attached.

	failures := d.ReloadByScreenIDs(context.Background(), []string{"a", "c"})

	assert.Empty(t, failures)
	require.Len(t, tr.sent, 1)
	assert.Equal(t, "sess-a", tr.sent[0].sessionID)
}

func TestReloadByScreenIDs_UnknownScreenReported(t *testing.T) {
	d, _, _, tr := newDispatcher()

	failures := d.ReloadByScreenIDs(context.Background(), []string{"ghost"})

	require.Len(t, failures, 1)
	assert.Equal(t, "ghost", failures[0].ScreenID)
	assert.Empty(t, tr.sent)
}

func TestReloadByScreenIDs_PushFailureReported(t *testing.T) {
	d, _, tracker, tr := newDispatcher()
	tracker.Attach("a", "sess-a")
	tr.failSessions["sess-a"] = errors.New("session gone")

	failures := d.ReloadByScreenIDs(context.Background(), []string{"a"})

	require.Len(t, failures, 1)
	assert.Equal(t, "a", failures[0].ScreenID)
}

func TestBroadcast_DelegatesToTransport(t *testing.T) {
	d, _, _, tr := newDispatcher()

	d.Broadcast("g", "reload", nil)

	require.Len(t, tr.sent, 1)
	assert.Equal(t, "g", tr.sent[0].groupID)
	assert.Equal(t, "reload", tr.sent[0].event)
}
