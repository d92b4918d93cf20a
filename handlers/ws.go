package handlers

import (
	"context"
	"net/http"
	"time"

	"signage/services/heartbeat"
	"signage/services/identity"
	"signage/services/presence"
	"signage/transport"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Screens authenticate with their bearer token in the ready frame.
		return true
	},
}

// WSHandler upgrades screen connections and wires their lifecycle into
// identity, presence and heartbeat.
type WSHandler struct {
	Hub      *transport.Hub
	Resolver identity.Resolver
	Presence presence.Tracker
	Monitor  heartbeat.Monitor
	Logger   *zap.Logger
}

func NewWSHandler(hub *transport.Hub, resolver identity.Resolver, tracker presence.Tracker, monitor heartbeat.Monitor, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		Hub:      hub,
		Resolver: resolver,
		Presence: tracker,
		Monitor:  monitor,
		Logger:   logger,
	}
}

// HandleConnection upgrades the request and starts the client pumps.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := transport.NewClient(h.Hub, conn, uuid.NewString())
	h.Hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h)
}

// Ready resolves the bearer token, binds presence and captures the
// screen's group labels on the connection.
func (h *WSHandler) Ready(client *transport.Client, token string) error {
	ctx := context.Background()
	screen, err := h.Resolver.Resolve(ctx, token)
	if err != nil {
		return err
	}

	client.SetIdentity(screen.ID, screen.Groups)
	h.Presence.Attach(screen.ID, client.SessionID())

	if err := h.Monitor.MarkAlive(ctx, screen.ID, time.Now()); err != nil {
		h.Logger.Warn("failed to record connect heartbeat",
			zap.String("screenId", screen.ID), zap.Error(err))
	}

	h.Logger.Info("screen attached",
		zap.String("screenId", screen.ID),
		zap.String("sessionId", client.SessionID()))
	return nil
}

// Heartbeat records a liveness timestamp for an identified client.
func (h *WSHandler) Heartbeat(client *transport.Client) {
	screenID := client.ScreenID()
	if screenID == "" {
		return
	}
	if err := h.Monitor.MarkAlive(context.Background(), screenID, time.Now()); err != nil {
		h.Logger.Warn("failed to record heartbeat",
			zap.String("screenId", screenID), zap.Error(err))
	}
}

// Closed clears the presence binding unless a reconnect already
// superseded this session.
func (h *WSHandler) Closed(client *transport.Client) {
	screenID := client.ScreenID()
	if screenID == "" {
		return
	}
	if current, ok := h.Presence.Lookup(screenID); ok && current == client.SessionID() {
		h.Presence.Detach(screenID)
	}
}
