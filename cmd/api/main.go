package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backtrace-backend/infrastructure/config"
	"backtrace-backend/infrastructure/di"
	"backtrace-backend/interfaces/http/rest"
	"backtrace-backend/interfaces/websocket"

	"go.uber.org/zap"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Start the snapshot sync loop before serving requests
	go func() {
		if err := container.Engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			container.Logger.Fatal("Engine failed", zap.Error(err))
		}
	}()

	// WebSocket hub and projection broadcast
	hub := websocket.NewHub(container.Logger)
	go hub.Run()
	defer hub.Stop()

	broadcaster := websocket.NewBroadcaster(container.Engine, hub, container.Logger)
	go broadcaster.Run(ctx)

	wsServer := websocket.NewServer(hub, container.Engine, nil, container.Logger)

	// Create router
	router := rest.NewRouter(
		cfg,
		container.Engine,
		container.SearchService,
		wsServer,
		container.Logger,
	)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("storageDriver", cfg.StorageDriver),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
