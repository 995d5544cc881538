package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/dukerupert/sweethome/internal/handler"
	"github.com/dukerupert/sweethome/internal/middleware"
)

// Pinger checks that the bakery backend answers.
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	backend Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler. timeout bounds the readiness ping.
func NewHealthHandler(backend Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{backend: backend, timeout: timeout}
}

// Live handles GET /healthz
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	handler.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz. The storefront is ready when the backend is.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.backend.Health(ctx); err != nil {
		middleware.GetLogger(r.Context()).Warn("readiness check failed", "error", err)
		handler.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unavailable",
			"backend": err.Error(),
		})
		return
	}

	handler.JSON(w, http.StatusOK, map[string]string{"status": "ok", "backend": "ok"})
}
