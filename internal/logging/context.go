package logging

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

type traceIDKey struct{}

// FromContext returns the logger stored in ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// ContextWithTraceID stores a trace ID in ctx.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID stored in ctx, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// GetOrGenerateTraceID returns the trace ID in ctx or a new ULID.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return ulid.Make().String()
}

// traceHook adds trace_id to events logged with .Ctx(ctx).
type traceHook struct{}

func (traceHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if id := TraceIDFromContext(e.GetCtx()); id != "" {
		e.Str("trace_id", id)
	}
}
