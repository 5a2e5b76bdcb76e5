package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.9.0"
	"go.opentelemetry.io/otel/trace"
)

// Trace starts a server span per request, continuing any trace propagated in
// the request headers. The span is named after the matched route.
func Trace(tracer trace.Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipTracingPaths(r) {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			// we set span name later after calling the next handler
			// https://github.com/go-chi/chi/blob/master/context.go#L117-L118
			ctx, span := tracer.Start(ctx, "unknown", trace.WithAttributes(
				semconv.HTTPURLKey.String(r.RequestURI),
				semconv.HTTPMethodKey.String(r.Method),
			), trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			r = r.WithContext(ctx)
			next.ServeHTTP(ww, r)

			spanName := fmt.Sprintf("%s %s", r.Method, routePattern(r))
			span.SetName(spanName)

			status := responseStatus(ww)
			span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
			if status >= 500 {
				span.SetStatus(codes.Error, fmt.Sprintf("error with HTTP status code %d", status))
			}
		})
	}
}

var skipPaths = map[string]struct{}{
	MetricsPath: {},
	HealthPath:  {},
}

func skipTracingPaths(r *http.Request) bool {
	if _, ok := skipPaths[r.URL.Path]; ok {
		return true
	}
	return r.URL.Path == DocsPath || strings.HasPrefix(r.URL.Path, DocsPath+"/")
}
