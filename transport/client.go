package transport

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	maxFrameSize = 4096
)

// SessionEvents receives lifecycle callbacks from a client's read loop.
type SessionEvents interface {
	// Ready is called when the client identifies itself with a token.
	Ready(c *Client, token string) error
	// Heartbeat is called for each liveness frame.
	Heartbeat(c *Client)
	// Closed is called once when the connection ends.
	Closed(c *Client)
}

// Client represents one connected screen.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string

	// Identity fields, set once the ready frame resolves.
	mu       sync.RWMutex
	screenID string
	groups   map[string]struct{}
}

// NewClient wraps an upgraded connection. The caller registers it with
// the hub and starts the pumps.
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		sessionID: sessionID,
		groups:    make(map[string]struct{}),
	}
}

// SessionID returns the ephemeral connection id.
func (c *Client) SessionID() string {
	return c.sessionID
}

// ScreenID returns the resolved screen id, or "" before the ready frame.
func (c *Client) ScreenID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.screenID
}

// SetIdentity binds the client to its screen and group labels. Labels
// are captured at attach time; later group changes take effect on the
// next connection.
func (c *Client) SetIdentity(screenID string, groups []string) {
	c.mu.Lock()
	c.screenID = screenID
	c.groups = make(map[string]struct{}, len(groups))
	for _, g := range groups {
		c.groups[g] = struct{}{}
	}
	c.mu.Unlock()
}

func (c *Client) inGroup(groupID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.groups[groupID]
	return ok
}

// trySend attempts to send data to the client's send channel.
// It silently handles closed channels (client disconnected during
// broadcast) and full buffers (slow client).
func (c *Client) trySend(data []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- data:
	default:
		// Client buffer full, skip
	}
}

func (c *Client) sendError(message string) {
	data, err := marshalFrame(EventError, map[string]string{"message": message})
	if err != nil {
		return
	}
	c.trySend(data)
}

// ReadPump reads frames from the connection until it closes. The first
// frame must be a ready frame carrying the bearer token; heartbeat
// frames follow. It blocks; run WritePump in its own goroutine.
func (c *Client) ReadPump(events SessionEvents) {
	defer func() {
		events.Closed(c)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", zap.Error(err))
			} else {
				c.hub.logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}
		// Any client frame resets the read deadline.
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
		c.handleFrame(message, events)
	}
}

func (c *Client) handleFrame(data []byte, events SessionEvents) {
	var frame Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.sendError("invalid JSON frame")
		return
	}

	switch frame.Event {
	case EventReady:
		if frame.Token == "" {
			c.sendError("ready frame requires a token")
			return
		}
		if err := events.Ready(c, frame.Token); err != nil {
			c.sendError("identification failed")
			c.hub.logger.Warn("screen identification failed",
				zap.String("sessionId", c.sessionID), zap.Error(err))
		}
	case EventHeartbeat:
		events.Heartbeat(c)
	default:
		c.sendError("unknown event: " + frame.Event)
	}
}

// WritePump writes queued frames and protocol pings to the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Hub closed the channel
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
