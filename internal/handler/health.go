package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db      HealthChecker
	limiter HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// limiter is nil when the process-local rate limiter is in use.
func NewHealthHandler(db, limiter HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:      db,
		limiter: limiter,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the server is running.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// It checks all dependencies and returns 200 only if all are healthy.
// Dependency error text is not echoed to callers.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	check := func(name string, c HealthChecker, unset string) {
		if c == nil {
			checks[name] = unset
			return
		}
		if err := c.Ping(ctx); err != nil {
			checks[name] = "error"
			healthy = false
			return
		}
		checks[name] = "ok"
	}

	check("database", h.db, "not configured")
	check("rate_limiter", h.limiter, "in-memory")

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status: status,
		Checks: checks,
	})
}
