// Package main implements the entry point for the PageLedger API server,
// which manages append-only datasets and serves both offset-based and
// deletion-resilient cursor pagination over them.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/pageledger/pageledger-api/internal/config"
	"github.com/pageledger/pageledger-api/internal/platform/logger"
)

// main initializes configuration, logging, storage, and services, then runs
// the HTTP server until it is signalled to stop.
func main() {
	cfg, err := initializeConfig()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}
	defer app.cleanup()

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeConfig loads configuration and sets up structured logging.
func initializeConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_configured", cfg.Database.URL != "")

	return cfg, nil
}
