package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHub() *Hub {
	return NewHub(zap.NewNop())
}

// drainFrame pops one queued frame from the client's buffer, or returns
// false if nothing was sent.
func drainFrame(t *testing.T, c *Client) (Frame, bool) {
	t.Helper()
	select {
	case data := <-c.send:
		var frame Frame
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame, true
	default:
		return Frame{}, false
	}
}

func TestBroadcastToGroup_TargetsGroupMembersOnly(t *testing.T) {
	hub := newTestHub()

	inGroup := NewClient(hub, nil, "sess-1")
	inGroup.SetIdentity("scr-1", []string{"lobby"})
	alsoIn := NewClient(hub, nil, "sess-2")
	alsoIn.SetIdentity("scr-2", []string{"lobby", "floor-2"})
	outside := NewClient(hub, nil, "sess-3")
	outside.SetIdentity("scr-3", []string{"floor-2"})

	hub.Register(inGroup)
	hub.Register(alsoIn)
	hub.Register(outside)

	hub.BroadcastToGroup("lobby", EventReload, nil)

	frame, ok := drainFrame(t, inGroup)
	require.True(t, ok)
	assert.Equal(t, EventReload, frame.Event)

	_, ok = drainFrame(t, alsoIn)
	assert.True(t, ok)

	_, ok = drainFrame(t, outside)
	assert.False(t, ok, "client outside the group must not receive the broadcast")
}

func TestBroadcastToGroup_LateJoinerMissesInFlightBroadcast(t *testing.T) {
	hub := newTestHub()

	hub.BroadcastToGroup("lobby", EventReload, nil)

	late := NewClient(hub, nil, "sess-late")
	late.SetIdentity("scr-late", []string{"lobby"})
	hub.Register(late)

	_, ok := drainFrame(t, late)
	assert.False(t, ok)
}

func TestSendToSession(t *testing.T) {
	hub := newTestHub()

	client := NewClient(hub, nil, "sess-1")
	client.SetIdentity("scr-1", nil)
	hub.Register(client)

	require.NoError(t, hub.SendToSession("sess-1", EventReload, nil))
	frame, ok := drainFrame(t, client)
	require.True(t, ok)
	assert.Equal(t, EventReload, frame.Event)

	assert.ErrorIs(t, hub.SendToSession("sess-missing", EventReload, nil), ErrSessionNotFound)
}

func TestUnregister_RemovesSessionAndSurvivesLateSends(t *testing.T) {
	hub := newTestHub()

	client := NewClient(hub, nil, "sess-1")
	client.SetIdentity("scr-1", []string{"lobby"})
	hub.Register(client)
	hub.Unregister(client)

	assert.Equal(t, 0, hub.ClientCount())
	assert.ErrorIs(t, hub.SendToSession("sess-1", EventReload, nil), ErrSessionNotFound)

	// A broadcast racing with the disconnect must not panic on the
	// closed send channel.
	assert.NotPanics(t, func() {
		client.trySend([]byte(`{}`))
	})
}

func TestUnregister_DoesNotEvictSupersedingSessionEntry(t *testing.T) {
	hub := newTestHub()

	old := NewClient(hub, nil, "sess-1")
	hub.Register(old)

	// Same session id re-registered by a reconnect before the old
	// client's pump exits.
	replacement := NewClient(hub, nil, "sess-1")
	hub.Register(replacement)

	hub.Unregister(old)

	require.NoError(t, hub.SendToSession("sess-1", EventReload, nil))
	_, ok := drainFrame(t, replacement)
	assert.True(t, ok)
}
