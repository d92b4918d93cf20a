// File: signage/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"signage/config"
	"signage/cron"
	"signage/database"
	apikeyRepo "signage/database/repository/apikey"
	"signage/handlers"
	"signage/middleware"
	"signage/routes"
	"signage/services/dispatch"
	"signage/services/fleet"
	"signage/services/heartbeat"
	"signage/services/identity"
	"signage/services/presence"
	"signage/services/registry"
	"signage/transport"
	"signage/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitFleetStore()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	keyRepo := apikeyRepo.NewMongoAPIKeyRepo()
	screenRegistry := &registry.DefaultScreenRegistry{
		Store: registry.NewRedisStore(utils.GetFleetStoreClient()),
	}

	// services.
	resolver := &identity.DefaultResolver{
		Registry: screenRegistry,
		Logger:   logger,
	}
	tracker := presence.NewInMemoryTracker()
	monitor := &heartbeat.DefaultMonitor{
		Registry:  screenRegistry,
		Threshold: config.HeartbeatThreshold(),
	}
	hub := transport.NewHub(logger)
	dispatcher := &dispatch.DefaultDispatcher{
		Registry:  screenRegistry,
		Presence:  tracker,
		Transport: hub,
		Logger:    logger,
	}
	aggregator := &fleet.DefaultAggregator{
		Keys:      keyRepo,
		Registry:  screenRegistry,
		Threshold: config.HeartbeatThreshold(),
	}

	// handlers.
	screenHandler := handlers.NewScreenHandler(resolver, screenRegistry, dispatcher, logger)
	dashboardHandler := handlers.NewDashboardHandler(aggregator, logger)
	wsHandler := handlers.NewWSHandler(hub, resolver, tracker, monitor, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ScreenSocketHandler: wsHandler.HandleConnection,

		UpdateScreenHandler:  screenHandler.UpdateScreenHandler,
		ReloadScreensHandler: screenHandler.ReloadScreensHandler,
		PushContentHandler:   handlers.NotImplementedHandler("content push"),
		PushEmergencyHandler: handlers.NotImplementedHandler("emergency push"),
		ScreenStatusHandler:  handlers.NotImplementedHandler("screen status"),

		FleetViewHandler: dashboardHandler.FleetViewHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the background fleet snapshot worker.
	cron.InitSnapshotWorker(aggregator)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
