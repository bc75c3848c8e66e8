package testutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClockAdvances(t *testing.T) {
	start := time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)
	clock := NewClock(start)
	clock.Advance(2 * time.Minute)
	if got := clock.Now(); !got.Equal(start.Add(2 * time.Minute)) {
		t.Fatalf("expected advanced time, got %v", got)
	}
	if got := NowAt(start)(); !got.Equal(start) {
		t.Fatalf("expected frozen time, got %v", got)
	}
}

func TestServeHelpers(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	rr := Serve(handler, http.MethodPost, "/test", strings.NewReader("{}"))
	AssertStatus(t, rr, http.StatusCreated)
	var body map[string]bool
	DecodeJSON(t, rr, &body)
	if !body["ok"] {
		t.Fatalf("expected ok=true")
	}

	req := httptest.NewRequest(http.MethodGet, "/req", nil)
	rr2 := ServeRequest(handler, req)
	AssertStatus(t, rr2, http.StatusCreated)
}

func TestRoundTripperHelpers(t *testing.T) {
	client := &http.Client{Transport: RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return JSONResponse(http.StatusAccepted, `{"path":"`+r.URL.Path+`"}`), nil
	})}

	resp, err := client.Get("http://upstream.test/games")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusAccepted || !strings.Contains(string(data), "/games") {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, data)
	}
}

func TestRecordingTimerFiresAndRecords(t *testing.T) {
	timer := NewRecordingTimer()
	timer.Start(time.Second)
	<-timer.C()
	timer.Start(2 * time.Second)
	<-timer.C()
	timer.Stop()

	delays := timer.Delays()
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Fatalf("unexpected delays %v", delays)
	}
}

func TestStubLiveUpdates(t *testing.T) {
	p := &StubLiveUpdates{Err: errors.New("stop")}
	if !p.StartLiveUpdates(context.Background()) {
		t.Fatalf("expected first start to report started")
	}
	if p.StartLiveUpdates(context.Background()) {
		t.Fatalf("expected second start to be a no-op")
	}
	if err := p.StopLiveUpdates(context.Background()); !errors.Is(err, p.Err) {
		t.Fatalf("expected stop error")
	}
	if p.StartCalls != 2 || p.StopCalls != 1 {
		t.Fatalf("unexpected call counts start=%d stop=%d", p.StartCalls, p.StopCalls)
	}
}

func TestStubHTTPServer(t *testing.T) {
	s := &StubHTTPServer{ListenErr: http.ErrServerClosed}
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("expected ErrServerClosed, got %v", err)
	}
	if s.Addr() != ":0" || s.Handler() == nil {
		t.Fatalf("expected defaults for addr and handler")
	}

	blocking := &StubHTTPServer{Block: make(chan struct{})}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	if err := blocking.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline while blocked, got %v", err)
	}
	close(blocking.Block)
	if err := blocking.Shutdown(context.Background()); err != nil {
		t.Fatalf("expected nil after unblock, got %v", err)
	}
	if blocking.ShutdownCalls.Load() != 2 || s.ListenCalls.Load() != 1 {
		t.Fatalf("unexpected counters listen=%d shutdown=%d", s.ListenCalls.Load(), blocking.ShutdownCalls.Load())
	}
}

func TestLogBuffer(t *testing.T) {
	logger, buf := NewBufferLogger()
	logger.Info("topic updated", "topic", "liveGamesUpdated")
	logger.Info("topic updated", "topic", "scheduleUpdated")
	logger.Debug("dropped at info level")
	if buf.Count("topic updated") != 2 {
		t.Fatalf("expected two matching lines, got %q", buf.String())
	}
	if buf.Count("dropped") != 0 || buf.Len() == 0 {
		t.Fatalf("unexpected buffer contents %q", buf.String())
	}
}
