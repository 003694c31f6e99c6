package anonlattice

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with anonlattice-specific context.
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

// WithID adds a transformation id field to the logger.
func (l *Logger) WithID(id uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// WithDimensions adds a dimensions field to the logger.
func (l *Logger) WithDimensions(dims int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimensions", dims),
	}
}

// WithStore adds a store field to the logger.
func (l *Logger) WithStore(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("store", name),
	}
}

// LogBuild logs a lattice build.
func (l *Logger) LogBuild(ctx context.Context, size int, virtualSize uint64, complete bool, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "lattice build failed",
			"virtual_size", virtualSize,
			"complete", complete,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "lattice built",
		"size", size,
		"virtual_size", virtualSize,
		"complete", complete,
		"duration", d,
	)
}

// LogExpand logs the expansion of one node.
func (l *Logger) LogExpand(ctx context.Context, id uint64, added int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "expand failed",
			"id", id,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "expand completed",
		"id", id,
		"added", added,
	)
}

// LogRowStore logs a row-store allocation or release.
func (l *Logger) LogRowStore(ctx context.Context, op string, rows, bytes int, offHeap bool, err error) {
	if err != nil {
		l.WarnContext(ctx, "row store "+op+" failed",
			"rows", rows,
			"bytes", bytes,
			"off_heap", offHeap,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "row store "+op,
		"rows", rows,
		"bytes", bytes,
		"off_heap", offHeap,
	)
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"blob", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot "+op,
		"blob", name,
	)
}
