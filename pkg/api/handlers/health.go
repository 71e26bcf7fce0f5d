package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/marmos91/dsomm/pkg/tracker"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Are the data loaded and the state store reachable?
type HealthHandler struct {
	svc *tracker.Service
}

// NewHealthHandler creates a new health handler. svc may be nil, in which
// case readiness reports unhealthy.
func NewHealthHandler(svc *tracker.Service) *HealthHandler {
	return &HealthHandler{svc: svc}
}

// Liveness handles GET /health.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "dsomm",
	}))
}

// Readiness handles GET /health/ready.
//
// Returns 503 Service Unavailable until the YAML data has loaded or while
// the state store fails its healthcheck.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("service not initialized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.svc.Store().Healthcheck(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("state store: "+err.Error()))
		return
	}
	storeLatency := time.Since(start)

	if !h.svc.Loaded() {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("data not loaded"))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"data":          "loaded",
		"store_latency": storeLatency.String(),
	}))
}
