package handlers

import (
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/nba-refresh-service/internal/poller"
)

// Handler serves the operational endpoints.
type Handler struct {
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn reports live-update health for /ready; nil means
// always ready.
func NewHandler(logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		logger:   logger,
		statusFn: statusFn,
	}
}

// ServeHTTP routes the operational endpoints.
func (h *Handler) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch r.URL.Path {
	case "/health":
		h.Health(w, r)
	case "/ready":
		h.Ready(w, r)
	default:
		respondError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		respondError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if err := r.Context().Err(); err != nil {
		respondError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	respond(w, r, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (load balancer and orchestrator health checks).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		respondError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if h.statusFn == nil {
		respond(w, r, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}

	status := h.statusFn()
	if status.IsReady() {
		respond(w, r, nethttp.StatusOK, readyBody(status, "ready"), h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	requestLogger(r, h.logger).Warn("readiness check failed",
		"consecutive_failures", status.ConsecutiveFailures,
		"started", status.Started,
	)
	respondError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

func readyBody(status poller.Status, state string) map[string]any {
	body := map[string]any{
		"status":              state,
		"consecutiveFailures": status.ConsecutiveFailures,
	}
	if !status.LastSuccess.IsZero() {
		body["lastSuccess"] = status.LastSuccess
	}
	return body
}
