// Package logging provides structured logging configuration for hwinv.
//
// Logs are JSON on stderr so that stdout stays free for reports:
//
//	hwinv report --format json > inventory.json
//
// Source locations are shortened to the internal/... path. Loggers are
// passed explicitly into constructors. Subsystems tag themselves with
// WithComponent:
//
//	linuxLog := logging.WithComponent(logger, "linux")
//	linuxLog.Warn("hwmon read failed", "path", p) // includes "component": "linux"
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SetupLogger creates a JSON logger on stderr at the given level and sets it
// as the slog default.
// The level parameter accepts: "debug", "info", "warn", "error" (case-insensitive).
// Invalid levels default to "info".
func SetupLogger(level string) *slog.Logger {
	logger := New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}

// New creates a JSON logger writing to w.
func New(w io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		AddSource:   true,
		ReplaceAttr: shortenSource,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func shortenSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	source, ok := a.Value.Any().(*slog.Source)
	if !ok {
		return a
	}
	if idx := strings.Index(source.File, "internal/"); idx != -1 {
		source.File = source.File[idx:]
	} else {
		source.File = filepath.Base(source.File)
	}
	if idx := strings.Index(source.Function, "internal/"); idx != -1 {
		source.Function = source.Function[idx:]
	}
	return a
}

// parseLevel converts a string log level to slog.Level.
// Returns slog.LevelInfo for unrecognized values.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithComponent returns a logger with a pre-set component attribute.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}
