package voctree

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with voctree-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogAdd logs an add operation.
func (l *Logger) LogAdd(id uint32, features int, indexed bool) {
	if !indexed {
		l.Debug("image skipped: no features",
			"id", id,
		)
		return
	}

	l.Debug("image added",
		"id", id,
		"features", features,
	)
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(limit, matches int, err error) {
	if err != nil {
		l.Error("query failed",
			"limit", limit,
			"error", err,
		)
		return
	}

	l.Debug("query completed",
		"limit", limit,
		"matches", matches,
	)
}

// LogClear logs a database reset.
func (l *Logger) LogClear(images int) {
	l.Info("database cleared",
		"images", images,
	)
}
