package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/geopin/geopin-backend/config"
	"github.com/geopin/geopin-backend/internal/app/controller"
	"github.com/geopin/geopin-backend/internal/app/repository"
	"github.com/geopin/geopin-backend/internal/app/service"
	"github.com/geopin/geopin-backend/internal/db"
	"github.com/geopin/geopin-backend/internal/router"
	"github.com/geopin/geopin-backend/internal/scheduler"
	"github.com/geopin/geopin-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting GeoPin Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize repositories
	poiRepo := repository.NewPOIRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())

	// Initialize services
	poiService := service.NewPOIService(poiRepo, tagRepo)
	tagService := service.NewTagService(tagRepo)

	// Initialize controllers
	poiController := controller.NewPOIController(poiService)
	tagController := controller.NewTagController(tagService)

	// Optional background archiving of stale TEMPORARY POIs
	var archiveScheduler *scheduler.ArchiveScheduler
	if cfg.Archiver.Enabled {
		archiveScheduler = scheduler.NewArchiveScheduler(
			poiService,
			cfg.Archiver.Schedule,
			cfg.Archiver.MaxAge,
		)
		if err := archiveScheduler.Start(); err != nil {
			logger.Fatal("Failed to start archive scheduler", err)
		}
		defer archiveScheduler.Stop()
	}

	// Setup router
	r := router.NewRouter(poiController, tagController, cfg)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
