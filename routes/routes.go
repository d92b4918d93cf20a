package routes

import (
	"net/http"
	"time"

	"signage/handlers"
	"signage/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterScreenRoutes registers the backend API endpoints.
func RegisterScreenRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/screens")
	{
		api.POST("/update", hb.UpdateScreenHandler)
		api.POST("/reload", hb.ReloadScreensHandler)

		// Declared but not built yet.
		api.POST("/content", hb.PushContentHandler)
		api.POST("/emergency", hb.PushEmergencyHandler)
		api.GET("/status", hb.ScreenStatusHandler)
	}
}

// RegisterDashboardRoutes registers operator-facing endpoints.
func RegisterDashboardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/dashboard")
	{
		api.Use(middleware.JWTAuthOperatorMiddleware())
		api.GET("/fleet", hb.FleetViewHandler)
	}
}

// RegisterTransportRoute registers the screen WebSocket endpoint.
func RegisterTransportRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/ws", hb.ScreenSocketHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "signage fleet service"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterScreenRoutes(r, hb)
	RegisterDashboardRoutes(r, hb)
	RegisterTransportRoute(r, hb)
	RegisterHealthRoute(r)
}
