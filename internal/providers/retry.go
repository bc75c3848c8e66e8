package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultRetryStep     = time.Second
)

// linearBackOff waits step, 2*step, 3*step, ... between attempts.
type linearBackOff struct {
	step    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.step
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

// RetryConfig configures a Retrier. Zero values fall back to 3 attempts with a 1s step.
type RetryConfig struct {
	Provider string
	Attempts int
	Step     time.Duration
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	// NewTimer overrides the wait between attempts; tests use it to avoid sleeping.
	NewTimer func() backoff.Timer
}

// Retrier runs upstream fetches with bounded attempts and linear backoff.
type Retrier struct {
	provider string
	attempts int
	step     time.Duration
	logger   *slog.Logger
	metrics  *metrics.Recorder
	newTimer func() backoff.Timer
}

// NewRetrier builds a Retrier from cfg.
func NewRetrier(cfg RetryConfig) *Retrier {
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultRetryAttempts
	}
	if cfg.Step <= 0 {
		cfg.Step = defaultRetryStep
	}
	return &Retrier{
		provider: cfg.Provider,
		attempts: cfg.Attempts,
		step:     cfg.Step,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		newTimer: cfg.NewTimer,
	}
}

// Attempts returns the default number of attempts.
func (r *Retrier) Attempts() int {
	return r.attempts
}

// Fetch calls f up to attempts times (the default when attempts <= 0), waiting step*n after the
// n-th failure. Every failed attempt is logged at warn level. The last error is returned once
// attempts run out; a canceled context stops the loop with ctx.Err().
func (r *Retrier) Fetch(ctx context.Context, f Fetcher, endpoint string, attempts int) ([]byte, error) {
	if attempts <= 0 {
		attempts = r.attempts
	}
	logger := withProvider(logging.FromContext(ctx, r.logger), r.provider)

	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		start := time.Now()
		body, err := f.Fetch(ctx, endpoint)
		r.metrics.RecordProviderAttempt(r.provider, time.Since(start), err)
		if err == nil {
			return body, nil
		}
		if rl, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.provider, rl.RetryAfter)
		}
		logging.Warn(logger, "upstream fetch attempt failed",
			logging.FieldAttempt, attempt,
			"max_attempts", attempts,
			logging.FieldEndpoint, endpoint,
			"error", err,
		)
		return nil, err
	}

	notify := func(err error, delay time.Duration) {
		r.metrics.RecordRetry(r.provider, delay)
		logging.Debug(logger, "retrying upstream fetch",
			logging.FieldEndpoint, endpoint,
			logging.Millis(logging.FieldDelayMS, delay),
		)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{step: r.step}, uint64(attempts-1)),
		ctx,
	)

	var timer backoff.Timer
	if r.newTimer != nil {
		timer = r.newTimer()
	}
	return backoff.RetryNotifyWithTimerAndData(op, b, notify, timer)
}
