// Package logging provides structured logging for the mashup CLI.
// It builds log/slog loggers and attaches the attributes each stage uses.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger creates a structured logger writing to w at the given level.
// Supported levels: debug, info, warn, error. Format "json" selects the
// JSON handler; anything else selects the text handler.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops every record. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithComponent returns a logger with component attribute
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// WithRunID returns a logger with run_id attribute
func WithRunID(logger *slog.Logger, runID string) *slog.Logger {
	return logger.With("run_id", runID)
}

// WithLocator returns a logger with locator attribute
func WithLocator(logger *slog.Logger, locator string) *slog.Logger {
	return logger.With("locator", locator)
}

// SanitizeSecret masks a credential for safe logging.
// Shows first 2 and last 2 characters only.
// Returns "****" for values of 8 characters or fewer.
func SanitizeSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:2] + "..." + secret[len(secret)-2:]
}
