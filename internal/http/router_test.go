package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/preston-bernstein/nba-refresh-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
	"github.com/preston-bernstein/nba-refresh-service/internal/poller"
)

func TestRouterRoutesKnownPaths(t *testing.T) {
	h := handlers.NewHandler(nil, func() poller.Status { return poller.Status{Started: true} })
	router := NewRouter(h, nil, metrics.NewRecorder())

	cases := map[string]int{
		"/health":         http.StatusOK,
		"/ready":          http.StatusOK,
		"/does-not-exist": http.StatusNotFound,
	}

	for path, expected := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("route %s missing request id header", path)
		}
	}
}

func TestRouterReportsDegradedPoller(t *testing.T) {
	status := poller.Status{Started: true, ConsecutiveFailures: 3, LastError: "upstream returned 503"}
	router := NewRouter(handlers.NewHandler(nil, func() poller.Status { return status }), nil, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if body := rr.Body.String(); !strings.Contains(body, "upstream returned 503") {
		t.Fatalf("expected last error in body, got %s", body)
	}
}
