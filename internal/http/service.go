package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	apicontract "github.com/tuanvumaihuynh/inventory-service/api-contract"
	"github.com/tuanvumaihuynh/inventory-service/internal/config"
	"github.com/tuanvumaihuynh/inventory-service/internal/http/apierr"
	"github.com/tuanvumaihuynh/inventory-service/internal/http/metric"
	"github.com/tuanvumaihuynh/inventory-service/internal/http/middleware"
	"github.com/tuanvumaihuynh/inventory-service/internal/http/swagger"
	"github.com/tuanvumaihuynh/inventory-service/internal/service"
	"github.com/tuanvumaihuynh/inventory-service/internal/storage/db"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg      config.HTTP
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metric.Metrics

	productSvc service.ProductService
	health     db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	productSvc service.ProductService,
	health db.HealthChecker,
) *Service {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "http")),
		registry:   registry,
		metrics:    metric.New(registry),
		productSvc: productSvc,
		health:     health,
	}
}

// Registerer exposes the registry served on the metrics endpoint so other
// components can add collectors.
func (s *Service) Registerer() prometheus.Registerer {
	return s.registry
}

// Handler builds the router with every middleware and route registered.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		s.registerDocs(r)
	}

	s.RegisterHandlers(r)

	return r
}

func (s *Service) registerDocs(r chi.Router) {
	ctx := context.Background()

	doc, err := apicontract.Load(ctx)
	if err == nil {
		err = swagger.Register(r, doc)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "api docs disabled", slog.Any("error", err))
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	return s.RunWithServer(ctx, s.Handler())
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.ErrorContext(ctx, "http server stopped unexpectedly", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.CorsAllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	h := newProductHandler(s.productSvc, s.cfg.MaxPageSize)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", s.handle(h.ListProducts))
		r.Post("/", s.handle(h.CreateProduct))
		r.Get("/low-stock", s.handle(h.ListLowStockProducts))
		r.Get("/{id}", s.handle(h.GetProduct))
		r.Put("/{id}", s.handle(h.UpdateProduct))
		r.Delete("/{id}", s.handle(h.DeleteProduct))
	})

	r.Get(middleware.HealthPath, s.handle(newHealthHandler(s.health, s.logger).Health))

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// handlerFunc is an HTTP handler that reports failures instead of writing
// them, leaving the error response to the service.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		var reqErr *apierr.RequestError
		if errors.As(err, &reqErr) {
			s.handleRequestError(w, r, err)
			return
		}
		s.handleResponseError(w, r, err)
	}
}

func (s *Service) handleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)

	s.logger.DebugContext(r.Context(), "http request error", slog.Any("error", err))

	res := apierr.New(err)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.WarnContext(r.Context(), "error encoding error request",
			slog.Any("error", err))
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding error response",
			slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}
