package sparsegrid

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sparsegrid-specific context.
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
// This is the default: the allocator sits in an inner loop.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithKind adds a node-kind field to the logger.
func (l *Logger) WithKind(kind KindID) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", int32(kind)),
	}
}

// LogInitialize logs registry construction.
func (l *Logger) LogInitialize(ctx context.Context, kinds int) {
	l.InfoContext(ctx, "registry initialized",
		"kinds", kinds,
	)
}

// LogClear logs one collective recycle pass over a kind's arena.
func (l *Logger) LogClear(ctx context.Context, kind KindID, recycled uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "recycle pass failed",
			"kind", int32(kind),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "recycle pass completed",
			"kind", int32(kind),
			"recycled", recycled,
		)
	}
}

// LogDump logs a diagnostics dump.
func (l *Logger) LogDump(ctx context.Context, kinds int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "stats dump failed",
			"kinds", kinds,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "stats dump completed",
			"kinds", kinds,
		)
	}
}
