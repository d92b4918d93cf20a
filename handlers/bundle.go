package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle collects every endpoint handler for route registration.
type HandlerBundle struct {
	// Screen transport.
	ScreenSocketHandler gin.HandlerFunc

	// Backend API endpoints.
	UpdateScreenHandler  gin.HandlerFunc
	ReloadScreensHandler gin.HandlerFunc
	PushContentHandler   gin.HandlerFunc
	PushEmergencyHandler gin.HandlerFunc
	ScreenStatusHandler  gin.HandlerFunc

	// Dashboard endpoints.
	FleetViewHandler gin.HandlerFunc
}
