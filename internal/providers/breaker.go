package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
)

// BreakerConfig configures the upstream circuit breaker.
type BreakerConfig struct {
	Name string
	// Failures is the number of consecutive failures that opens the circuit.
	Failures int
	// Timeout is how long the circuit stays open before a trial request.
	Timeout time.Duration
}

type breakerFetcher struct {
	next    Fetcher
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerFetcher wraps next in a circuit breaker. While the circuit is open, calls fail fast
// with ErrProviderUnavailable instead of reaching the upstream.
func NewBreakerFetcher(next Fetcher, cfg BreakerConfig, logger *slog.Logger) Fetcher {
	if cfg.Failures <= 0 {
		cfg.Failures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.Name == "" {
		cfg.Name = "upstream"
	}
	threshold := uint32(cfg.Failures)

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn(withProvider(logger, name), "circuit breaker state changed",
				"from", from.String(),
				"to", to.String(),
			)
		},
		// A canceled caller says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &breakerFetcher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *breakerFetcher) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.next.Fetch(ctx, endpoint)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	body, _ := res.([]byte)
	return body, nil
}
