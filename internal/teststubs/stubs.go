package teststubs

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrNoRoute is returned by StubFetcher when no body or error is configured for a path.
var ErrNoRoute = errors.New("stub: no route")

// StubFetcher is a test double for providers.Fetcher. Bodies and errors are keyed by the endpoint
// path (the part before "?"). FailFirst makes the first N calls fail with Err before routing.
type StubFetcher struct {
	Bodies    map[string]string
	Errs      map[string]error
	Err       error
	FailFirst int32
	Calls     atomic.Int32
	Notify    chan struct{}

	mu        sync.Mutex
	endpoints []string
}

// Fetch returns the configured body or error for the endpoint path while tracking calls.
func (s *StubFetcher) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	n := s.Calls.Add(1)
	s.mu.Lock()
	s.endpoints = append(s.endpoints, endpoint)
	s.mu.Unlock()
	if s.Notify != nil {
		select {
		case s.Notify <- struct{}{}:
		default:
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= s.FailFirst && s.Err != nil {
		return nil, s.Err
	}

	path := endpoint
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		path = endpoint[:i]
	}
	if err, ok := s.Errs[path]; ok {
		return nil, err
	}
	if body, ok := s.Bodies[path]; ok {
		return []byte(body), nil
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return nil, ErrNoRoute
}

// Endpoints returns the endpoints requested so far, in call order.
func (s *StubFetcher) Endpoints() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.endpoints))
	copy(out, s.endpoints)
	return out
}
