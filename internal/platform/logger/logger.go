// Package logger builds the process-wide structured logger. Resolution runs
// on the auction hot path, so the level gate matters: debug logging is opt-in
// per deployment, never the default.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// New returns a JSON logger on stdout gated at the given level. Level accepts
// "debug", "info", "warn", or "error"; unknown values fall back to info.
func New(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// ParseLevel maps the configured level name onto slog's levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
