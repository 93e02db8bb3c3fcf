package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/bdask/bdask/internal/store"
	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	repo      store.Repository
	aiEnabled bool
	timeout   time.Duration
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(repo store.Repository, aiEnabled bool) *HealthHandler {
	return &HealthHandler{repo: repo, aiEnabled: aiEnabled, timeout: 5 * time.Second}
}

// Health returns the health status of the API and its dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := map[string]string{"api": "ok", "assistant": "disabled"}
	if h.aiEnabled {
		checks["assistant"] = "enabled"
	}
	status := map[string]interface{}{
		"status": "healthy",
		"checks": checks,
	}
	statusCode := http.StatusOK

	if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		checks["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	JSON(w, statusCode, status)
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/health", h.Health)
}
