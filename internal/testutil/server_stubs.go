package testutil

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/preston-bernstein/nba-refresh-service/internal/poller"
)

// StubLiveUpdates records lifecycle calls. Only the first start reports true, like the real
// service.
type StubLiveUpdates struct {
	StartCalls int
	StopCalls  int
	Err        error
	StatusVal  poller.Status
}

func (p *StubLiveUpdates) StartLiveUpdates(context.Context) bool {
	p.StartCalls++
	return p.StartCalls == 1
}

func (p *StubLiveUpdates) StopLiveUpdates(context.Context) error {
	p.StopCalls++
	return p.Err
}

func (p *StubLiveUpdates) LiveUpdatesStatus() poller.Status {
	return p.StatusVal
}

// StubHTTPServer stands in for the ops and metrics servers. ListenAndServe returns ListenErr
// at once. When Block is set, Shutdown waits for it to close or for ctx to end.
type StubHTTPServer struct {
	AddrVal     string
	HandlerVal  http.Handler
	ListenErr   error
	ShutdownErr error
	Block       chan struct{}

	ListenCalls   atomic.Int32
	ShutdownCalls atomic.Int32
}

func (s *StubHTTPServer) ListenAndServe() error {
	s.ListenCalls.Add(1)
	return s.ListenErr
}

func (s *StubHTTPServer) Shutdown(ctx context.Context) error {
	s.ShutdownCalls.Add(1)
	if s.Block == nil {
		return s.ShutdownErr
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.Block:
		return s.ShutdownErr
	}
}

func (s *StubHTTPServer) Addr() string {
	if s.AddrVal == "" {
		return ":0"
	}
	return s.AddrVal
}

func (s *StubHTTPServer) Handler() http.Handler {
	if s.HandlerVal == nil {
		return http.NotFoundHandler()
	}
	return s.HandlerVal
}
