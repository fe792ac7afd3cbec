package handlepool

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pool-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPool adds a pool name field to the logger.
func (l *Logger) WithPool(name string) *Logger {
	if name == "" {
		return l
	}
	return &Logger{
		Logger: l.Logger.With("pool", name),
	}
}

// LogGrow logs a chunk allocation.
func (l *Logger) LogGrow(ctx context.Context, chunks int, capacity uint64, bytes int64, err error) {
	if err != nil {
		l.WarnContext(ctx, "chunk allocation refused",
			"chunks", chunks,
			"capacity", capacity,
			"chunk_bytes", bytes,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "chunk allocated",
			"chunks", chunks,
			"capacity", capacity,
			"chunk_bytes", bytes,
		)
	}
}

// LogStale logs an operation that was given a stale handle.
func (l *Logger) LogStale(ctx context.Context, op string, err error) {
	l.DebugContext(ctx, "stale handle",
		"op", op,
		"error", err,
	)
}

// LogClose logs pool shutdown.
func (l *Logger) LogClose(ctx context.Context, released, chunks int, bytes int64) {
	l.InfoContext(ctx, "pool closed",
		"released", released,
		"chunks", chunks,
		"bytes_reserved", bytes,
	)
}
