package bitagg

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/bitagg/aggregator"
)

// Logger wraps slog.Logger with bitagg-specific context.
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

// WithName adds a vector name field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}

// WithOp adds an operation field to the logger.
func (l *Logger) WithOp(op aggregator.Op) *Logger {
	return &Logger{
		Logger: l.Logger.With("op", op.String()),
	}
}

// LogCombine logs an in-memory aggregation.
func (l *Logger) LogCombine(ctx context.Context, op aggregator.Op, operands int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "combine failed",
			"op", op.String(),
			"operands", operands,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "combine completed",
			"op", op.String(),
			"operands", operands,
		)
	}
}

// LogBatch logs a batch of aggregations.
func (l *Logger) LogBatch(ctx context.Context, jobs int, err error) {
	if err != nil {
		l.WarnContext(ctx, "batch failed",
			"jobs", jobs,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "batch completed",
			"jobs", jobs,
		)
	}
}

// LogSave logs saving a named vector.
func (l *Logger) LogSave(ctx context.Context, name string, count uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "vector saved",
			"name", name,
			"count", count,
		)
	}
}

// LogLoad logs loading a named vector.
func (l *Logger) LogLoad(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "vector loaded",
			"name", name,
		)
	}
}

// LogDelete logs deleting a named vector.
func (l *Logger) LogDelete(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "vector deleted",
			"name", name,
		)
	}
}

// LogAggregate logs an aggregation over stored vectors.
func (l *Logger) LogAggregate(ctx context.Context, op aggregator.Op, dst string, operands int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "aggregate failed",
			"op", op.String(),
			"dst", dst,
			"operands", operands,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "aggregate saved",
			"op", op.String(),
			"dst", dst,
			"operands", operands,
		)
	}
}
