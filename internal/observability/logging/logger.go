package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger returns a JSON logger on stdout tagged with the service
// name. An empty service falls back to the module default.
func NewJSONLogger(service, level string) *slog.Logger {
	if service == "" {
		service = "traveler-registry"
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: Level(level)})
	return slog.New(handler).With(slog.String("service", service))
}

// Level maps a config string to a slog level. Unknown values mean info.
func Level(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
