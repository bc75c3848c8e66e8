package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/preston-bernstein/nba-refresh-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
)

type requestIDKey struct{}

// RequestIDFromContext extracts the ID stored by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID accepts a well-formed X-Request-ID or mints one, echoes it on the response and
// stores it in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestutil.SanitizeRequestID(r.Header.Get(requestutil.HeaderRequestID))
		w.Header().Set(requestutil.HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

// AccessLog attaches a request-scoped logger, then records the outcome to recorder and to a
// debug log line.
func AccessLog(base *slog.Logger, recorder *metrics.Recorder, next http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := base.With(
			slog.String(logging.FieldRequestID, RequestIDFromContext(r.Context())),
			slog.String(logging.FieldMethod, r.Method),
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r.WithContext(logging.WithLogger(r.Context(), logger)))

		elapsed := time.Since(start)
		recorder.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), sw.code(), elapsed)
		logger.Debug("request complete",
			slog.Int(logging.FieldStatusCode, sw.code()),
			slog.Int("bytes", sw.written),
			logging.Millis(logging.FieldDurationMS, elapsed),
		)
	})
}

// LoggingMiddleware is the ops server stack: request IDs outermost, then the access log.
func LoggingMiddleware(logger *slog.Logger, recorder *metrics.Recorder, next http.Handler) http.Handler {
	return RequestID(AccessLog(logger, recorder, next))
}

// statusWriter remembers the status code and body size written through it.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written int
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// normalizePath keeps metric label cardinality bounded to the routes we serve.
func normalizePath(path string) string {
	switch path {
	case "/health", "/ready", "":
		return path
	default:
		return "/other"
	}
}
