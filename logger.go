package gaia2read

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jkim117/gaia2read/model"
)

// Logger wraps slog.Logger with catalog-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithCatalog adds the catalog location to every record.
func (l *Logger) WithCatalog(location string) *Logger {
	return &Logger{
		Logger: l.Logger.With("catalog", location),
	}
}

// LogQuery logs a positional count or search.
func (l *Logger) LogQuery(ctx context.Context, op string, q Query, st QueryStats, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"ra", q.RA,
			"dec", q.Dec,
			"size", q.Size,
			"circle", q.Circle,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, op+" completed",
		"ra", q.RA,
		"dec", q.Dec,
		"size", q.Size,
		"circle", q.Circle,
		"zones", st.Zones,
		"scanned", st.Scanned,
		"results", st.Accepted,
		"duration", d,
	)
}

// LogLookup logs a Gaia ID lookup.
func (l *Logger) LogLookup(ctx context.Context, id int64, err error) {
	if err != nil {
		l.WarnContext(ctx, "lookup failed",
			"source_id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "lookup completed",
			"source_id", id,
		)
	}
}

// LogTranslate logs an identifier translation.
func (l *Logger) LogTranslate(ctx context.Context, from, to model.IDScheme, count int, err error) {
	if err != nil {
		l.WarnContext(ctx, "translate failed",
			"from", from.String(),
			"to", to.String(),
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "translate completed",
			"from", from.String(),
			"to", to.String(),
			"count", count,
		)
	}
}
