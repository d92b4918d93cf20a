package transport

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Wire event names.
const (
	EventReady     = "ready"
	EventHeartbeat = "heartbeat"
	EventReload    = "reload"
	EventError     = "error"

	// sendBufferSize is the per-client outbound frame buffer size.
	sendBufferSize = 256
)

// Frame is a message sent to or from a screen connection.
type Frame struct {
	Event     string      `json:"event"`
	Token     string      `json:"token,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ErrSessionNotFound signals a push to a session that is no longer attached.
var ErrSessionNotFound = errors.New("transport: session not attached")

// Hub tracks connected screen clients and addresses frames to them by
// session id or by group label.
type Hub struct {
	logger    *zap.Logger
	clients   map[*Client]struct{}
	bySession map[string]*Client
	mu        sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:    logger,
		clients:   make(map[*Client]struct{}),
		bySession: make(map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.bySession[client.sessionID] = client
	h.mu.Unlock()
	h.logger.Debug("screen client connected", zap.Int("clients", h.ClientCount()))
}

// Unregister removes a client from the hub.
// Only the goroutine that successfully removes the client from the map
// closes the send channel, preventing double-close panics during shutdown.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	if h.bySession[client.sessionID] == client {
		delete(h.bySession, client.sessionID)
	}
	h.mu.Unlock()

	if existed {
		close(client.send)
	}
	h.logger.Debug("screen client disconnected", zap.Int("clients", h.ClientCount()))
}

// SendToSession delivers a named event to one attached session.
func (h *Hub) SendToSession(sessionID, event string, payload interface{}) error {
	h.mu.RLock()
	client, ok := h.bySession[sessionID]
	h.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	data, err := marshalFrame(event, payload)
	if err != nil {
		return err
	}
	client.trySend(data)
	return nil
}

// BroadcastToGroup sends an event to every client carrying the group
// label. The client list is snapshotted up front, so a screen joining
// the group mid-broadcast does not receive the in-flight event.
// Delivery is fire-and-forget: a full client buffer skips that client.
func (h *Hub) BroadcastToGroup(groupID, event string, payload interface{}) {
	data, err := marshalFrame(event, payload)
	if err != nil {
		h.logger.Error("failed to marshal broadcast frame", zap.Error(err))
		return
	}

	// Snapshot client list under hub lock, then release before sending.
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	sentCount := 0
	for _, client := range clients {
		if client.inGroup(groupID) {
			client.trySend(data)
			sentCount++
		}
	}
	if sentCount > 0 {
		h.logger.Debug("broadcast sent",
			zap.String("group", groupID),
			zap.String("event", event),
			zap.Int("recipients", sentCount))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects all clients and closes their send channels
// so writePump goroutines can exit cleanly.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
		delete(h.bySession, client.sessionID)
	}
}

func marshalFrame(event string, payload interface{}) ([]byte, error) {
	return json.Marshal(Frame{
		Event:     event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
}
