// Package logger provides structured logging functionality for the
// application: a slog JSON handler configured from ServerConfig, plus
// helpers for carrying a request-scoped logger through a context.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pageledger/pageledger-api/internal/config"
)

// Setup initializes the application's logging system from the provided
// configuration. It creates a structured JSON logger writing to stdout with
// the configured level and installs it as the process default, so package
// level slog calls (slog.Info, slog.Error, ...) use it too.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	log := slog.New(handler)
	slog.SetDefault(log)

	return log, nil
}

// parseLevel maps a configured level name to a slog.Level
// (case-insensitive).
func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", name)
	}
}
