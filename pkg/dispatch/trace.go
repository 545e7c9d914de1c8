package dispatch

import (
	"context"

	"github.com/google/uuid"
)

type traceKey struct{}

// WithTrace tags every message dispatched with ctx with TRACE_ID=id.
func WithTrace(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

func TraceFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

func ensureTrace(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if TraceFrom(ctx) != "" {
		return ctx
	}
	return WithTrace(ctx, uuid.NewString())
}
