package handlers

import (
	"net/http"

	"signage/services/fleet"
	"signage/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	Aggregator fleet.Aggregator
	Logger     *zap.Logger
}

func NewDashboardHandler(aggregator fleet.Aggregator, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{Aggregator: aggregator, Logger: logger}
}

// FleetViewHandler returns the per-tenant all/critical buckets with
// counts. The aggregation is all-or-nothing: any screen-load failure
// fails the whole request.
func (h *DashboardHandler) FleetViewHandler(c *gin.Context) {
	view, err := h.Aggregator.BuildFleetView(c.Request.Context())
	if err != nil {
		h.Logger.Error("fleet aggregation failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to build fleet view", err.Error())
		return
	}
	c.JSON(http.StatusOK, view)
}
