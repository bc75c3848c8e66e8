package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/nba-refresh-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
	"github.com/preston-bernstein/nba-refresh-service/internal/testutil"
)

func TestRequestIDKeepsValidIncomingID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got != "reqid-123" {
			t.Fatalf("expected incoming id in context, got %q", got)
		}
	})
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	req.Header.Set(requestutil.HeaderRequestID, "reqid-123")

	rr := testutil.ServeRequest(RequestID(next), req)

	if got := rr.Header().Get(requestutil.HeaderRequestID); got != "reqid-123" {
		t.Fatalf("expected echoed id, got %q", got)
	}
}

func TestRequestIDReplacesMalformedID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	req.Header.Set(requestutil.HeaderRequestID, "not valid!")

	rr := testutil.ServeRequest(RequestID(next), req)

	if seen == "" || seen == "not valid!" {
		t.Fatalf("expected a minted id, got %q", seen)
	}
	if rr.Header().Get(requestutil.HeaderRequestID) != seen {
		t.Fatalf("expected response header to match context id")
	}
}

func TestAccessLogStoresRequestLogger(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.FromContext(r.Context(), nil).Info("inside handler")
	})

	testutil.Serve(LoggingMiddleware(logger, nil, next), http.MethodGet, "/health", nil)

	out := buf.String()
	if !strings.Contains(out, "inside handler") || !strings.Contains(out, "path=/health") || !strings.Contains(out, "request_id=") {
		t.Fatalf("expected request-scoped fields, got %s", out)
	}
}

func TestAccessLogRecordsStatusAndBytes(t *testing.T) {
	buf := &testutil.LogBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"not ready"}`)
	})
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1")

	rr := testutil.ServeRequest(LoggingMiddleware(logger, nil, next), req)

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	out := buf.String()
	for _, want := range []string{"request complete", "status_code=503", "bytes=21", "client_ip=198.51.100.1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in access log, got %s", want, out)
		}
	}
}

func TestStatusWriterDefaultsToOK(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	if sw.code() != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", sw.code())
	}
	_, _ = sw.Write([]byte("ok"))
	sw.WriteHeader(http.StatusTeapot)
	if sw.code() != http.StatusOK || sw.written != 2 {
		t.Fatalf("expected first status to stick, got %d/%d", sw.code(), sw.written)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "/health", want: "/health"},
		{in: "/ready", want: "/ready"},
		{in: "/players/237", want: "/other"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRequestIDFromContextEmpty(t *testing.T) {
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id for nil context, got %q", got)
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := LoggingMiddleware(logger, nil, next)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}
}
