package http

import (
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/inventory-service/internal/http/dto"
	"github.com/tuanvumaihuynh/inventory-service/internal/storage/db"
)

type healthHandler struct {
	checker db.HealthChecker
	logger  *slog.Logger
}

func newHealthHandler(checker db.HealthChecker, logger *slog.Logger) *healthHandler {
	return &healthHandler{checker: checker, logger: logger}
}

func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) error {
	if h.checker != nil {
		healthy, err := h.checker.IsHealthy(r.Context())
		if err != nil || !healthy {
			h.logger.WarnContext(r.Context(), "storage is unhealthy", slog.Any("error", err))
			writeJSON(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable"})
			return nil
		}
	}

	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
	return nil
}
