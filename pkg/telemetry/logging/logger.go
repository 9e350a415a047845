// Package logging configures the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"relay-hq/relay/pkg/config"
)

// levelVar holds the active minimum level so the config watcher can adjust
// it at runtime without rebuilding the logger.
var levelVar = new(slog.LevelVar)

// Setup builds a slog.Logger from the logging configuration, installs it as
// the default logger, and returns it. The writer defaults to os.Stdout.
func Setup(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	levelVar.Set(ParseLevel(cfg.Level))

	opts := &slog.HandlerOptions{Level: levelVar}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// SetLevel adjusts the minimum level of the logger built by Setup.
func SetLevel(level string) {
	levelVar.Set(ParseLevel(level))
}

// ParseLevel converts a configuration string to a slog.Level.
// Unrecognized values fall back to info.
func ParseLevel(s string) slog.Level {
	switch s {
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
