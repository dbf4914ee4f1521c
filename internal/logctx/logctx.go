// Package logctx carries a request-scoped slog.Logger through contexts and
// wraps handlers so log records pick up trace correlation.
package logctx

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithLogger returns a child context carrying the given logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// LoggerFromContext returns the logger stored in ctx, falling back to
// slog.Default() when none was attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	return slog.Default()
}
