package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With returns a context carrying a child logger with the extra fields
// attached. Handlers use it to tag every log line with the trace id.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// From returns the logger carried by the context, falling back to the
// process logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return Default()
}
