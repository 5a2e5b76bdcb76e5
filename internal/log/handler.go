package log

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/inventory-service/pkg/correlationid"
)

const (
	correlationIDKey = "correlation_id"
	traceIDKey       = "trace_id"
	spanIDKey        = "span_id"
)

var _ slog.Handler = (*contextHandler)(nil)

// contextHandler adds request scoped values from the record context.
type contextHandler struct {
	next slog.Handler
}

func newContextHandler(next slog.Handler) contextHandler {
	return contextHandler{next: next}
}

func (h contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := correlationid.FromContext(ctx); ok {
		r.AddAttrs(slog.String(correlationIDKey, id))
	}

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		r.AddAttrs(
			slog.String(traceIDKey, spanCtx.TraceID().String()),
			slog.String(spanIDKey, spanCtx.SpanID().String()),
		)
	}

	return h.next.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newContextHandler(h.next.WithAttrs(attrs))
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return newContextHandler(h.next.WithGroup(name))
}
