// Package logging configures the process-wide structured logger. Packages
// receive child loggers tagged with a component attribute from the wiring in
// the server package.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds the root *slog.Logger at the given level, installs it as the
// default, and returns it. Accepted levels are debug, info, warn, and error
// (case-insensitive); anything else falls back to info.
func Setup(level string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
