package handlers

import (
	"net/http"

	"signage/services/dispatch"
	"signage/services/identity"
	"signage/services/registry"
	"signage/transport"
	"signage/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScreenUpdateRequest is the body of the update endpoint.
type ScreenUpdateRequest struct {
	Token  string   `json:"token"`
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

// ReloadRequest targets screens directly or whole groups.
type ReloadRequest struct {
	Screens []string `json:"screens"`
	Groups  []string `json:"groups"`
}

type ScreenHandler struct {
	Resolver   identity.Resolver
	Registry   registry.ScreenRegistry
	Dispatcher dispatch.Dispatcher
	Logger     *zap.Logger
}

func NewScreenHandler(resolver identity.Resolver, reg registry.ScreenRegistry, dispatcher dispatch.Dispatcher, logger *zap.Logger) *ScreenHandler {
	return &ScreenHandler{
		Resolver:   resolver,
		Registry:   reg,
		Dispatcher: dispatcher,
		Logger:     logger,
	}
}

// UpdateScreenHandler resolves the token (provisioning on first contact)
// and replaces the screen's name and groups.
func (h *ScreenHandler) UpdateScreenHandler(c *gin.Context) {
	var req ScreenUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid request body", err.Error())
		return
	}
	if req.Token == "" {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Missing required field", "token is required")
		return
	}

	screen, err := h.Resolver.Resolve(c.Request.Context(), req.Token)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	screen.Name = req.Name
	if req.Groups != nil {
		screen.Groups = req.Groups
	}
	if err := h.Registry.PutScreen(c.Request.Context(), screen); err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"screen": screen})
}

// ReloadScreensHandler pushes a reload command to explicit screen ids or
// broadcasts it to groups. A body naming neither is rejected.
func (h *ScreenHandler) ReloadScreensHandler(c *gin.Context) {
	var req ReloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "Invalid request body", err.Error())
		return
	}

	switch {
	case len(req.Screens) > 0:
		failures := h.Dispatcher.ReloadByScreenIDs(c.Request.Context(), req.Screens)
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"failures": failures,
		})
	case len(req.Groups) > 0:
		for _, groupID := range req.Groups {
			h.Dispatcher.Broadcast(groupID, transport.EventReload, nil)
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	default:
		utils.JSONError(c, http.StatusUnprocessableEntity, "Missing required field", "either screens or groups must be provided")
	}
}

// NotImplementedHandler declares an endpoint that is not built yet.
func NotImplementedHandler(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": feature + " is not implemented"})
	}
}

// respondStoreError distinguishes an unknown screen from an unreachable
// backing store, so callers can tell the two apart.
func (h *ScreenHandler) respondStoreError(c *gin.Context, err error) {
	if registry.IsNotFound(err) {
		utils.JSONError(c, http.StatusNotFound, "Screen not found", err.Error())
		return
	}
	h.Logger.Error("registry store failure", zap.Error(err))
	utils.JSONError(c, http.StatusBadGateway, "Registry store unavailable", err.Error())
}
