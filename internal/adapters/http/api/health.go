package api

import (
	"net/http"

	"github.com/okian/pathwise/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadyChecker reports whether the service can serve predictions.
type ReadyChecker interface {
	Ready() bool
}

// HealthHandler handles liveness, readiness and metrics requests.
type HealthHandler struct {
	ready ReadyChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(ready ReadyChecker) *HealthHandler {
	return &HealthHandler{ready: ready}
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HandleHealth handles GET /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Service: "pathwise-api"})
}

// HandleReady handles GET /readyz requests: 200 once the classifier is loaded.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if !h.ready.Ready() {
		writeError(w, http.StatusServiceUnavailable, "not_ready", ErrUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ready", Service: "pathwise-api"})
}

// MetricsHandler serves Prometheus metrics from the custom registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
