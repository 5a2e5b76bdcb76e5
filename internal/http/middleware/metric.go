package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tuanvumaihuynh/inventory-service/internal/http/metric"
)

const (
	MetricsPath = "/metrics"
	HealthPath  = "/healthz"
	DocsPath    = "/docs"
)

// Metrics records request counts and latencies labelled by route pattern, so
// that path parameters do not create new series.
func Metrics(m *metric.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == MetricsPath {
				next.ServeHTTP(w, r)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			t1 := time.Now()

			m.InflightRequests.Inc()
			defer m.InflightRequests.Dec()

			next.ServeHTTP(ww, r)

			duration := time.Since(t1).Seconds()
			route := routePattern(r)

			m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(responseStatus(ww))).Inc()
			m.RequestDuration.WithLabelValues(r.Method, route).Observe(duration)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "<unknown>"
}

// responseStatus defaults to 200 for handlers that never wrote a header.
func responseStatus(ww middleware.WrapResponseWriter) int {
	if status := ww.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}
