package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/nba-refresh-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-refresh-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
)

// NewRouter registers the operational routes and wraps them with request logging and metrics.
func NewRouter(handler *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.Handle("/", handler)
	return middleware.LoggingMiddleware(logger, recorder, mux)
}
