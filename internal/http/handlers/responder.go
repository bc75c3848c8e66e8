package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nba-refresh-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-refresh-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
)

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// respond writes payload as JSON; encoding failures go to the request-scoped logger.
func respond(w http.ResponseWriter, r *http.Request, status int, payload any, fallback *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(requestLogger(r, fallback), "failed to encode response", err)
	}
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string, fallback *slog.Logger) {
	respond(w, r, status, errorBody{Error: message, RequestID: requestID(r)}, fallback)
}

// requestID prefers the id the middleware stored and falls back to the raw header.
func requestID(r *http.Request) string {
	if r == nil {
		return ""
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get(requestutil.HeaderRequestID)
}

func requestLogger(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if fallback == nil {
		fallback = slog.Default()
	}
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
