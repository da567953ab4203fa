package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pageledger/pageledger-api/internal/config"
	"github.com/pageledger/pageledger-api/internal/platform/memory"
	"github.com/pageledger/pageledger-api/internal/platform/postgres"
	"github.com/pageledger/pageledger-api/internal/service"
	"github.com/pageledger/pageledger-api/internal/service/auth"
	"github.com/pageledger/pageledger-api/internal/store"
)

// application holds the shared application dependencies to simplify wiring
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory backend is active.
	db *sql.DB

	datasetStore store.DatasetStore
	itemStore    store.ItemStore
	userStore    store.UserStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	feedService      service.FeedService
}

// newApplication wires all application components. An empty database URL
// selects the in-memory backend, which is intended for development and tests;
// anything else connects to postgres and applies pending migrations.
func newApplication(cfg *config.Config) (*application, error) {
	logger := slog.Default()

	app := &application{
		config: cfg,
		logger: logger,
	}

	if cfg.Database.URL == "" {
		logger.Info("no database URL configured, using in-memory storage")
		ds := memory.NewDatasetStore(logger)
		app.datasetStore = ds
		app.itemStore = ds
		app.userStore = memory.NewUserStore(cfg.Auth.BcryptCost, logger)
	} else {
		db, err := setupAppDatabase(cfg, logger)
		if err != nil {
			return nil, err
		}
		app.db = db

		if err := runMigrations(db, logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		app.datasetStore = postgres.NewPostgresDatasetStore(db, logger)
		app.itemStore = postgres.NewPostgresItemStore(db, logger)
		app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService
	app.passwordVerifier = auth.NewBcryptVerifier()

	feedService, err := service.NewFeedService(app.datasetStore, app.itemStore, cfg.Pagination, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create feed service: %w", err)
	}
	app.feedService = feedService

	return app, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.feedService != nil {
		app.feedService.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
