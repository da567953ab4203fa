package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pageledger/pageledger-api/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

// Printf forwards goose messages to slog.Info.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf forwards goose error messages to slog.Error. Unlike the standard
// Fatalf behavior this does NOT call os.Exit; the error is returned to main,
// which handles application exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations applies all pending goose migrations from the embedded
// migration files.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	migrationLogger := logger.With("component", "migrations")

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(postgres.MigrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	start := time.Now()
	migrationLogger.Info("Applying pending migrations")

	if err := goose.Up(db, postgres.MigrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	migrationLogger.Info("Migrations applied",
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
