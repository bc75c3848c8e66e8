package providers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
)

// rateLimitedFetcher spaces upstream calls to stay under a per-minute quota.
type rateLimitedFetcher struct {
	next    Fetcher
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedFetcher returns a Fetcher that allows at most perMinute calls per minute.
// Calls block until a token is available or ctx ends. perMinute <= 0 disables limiting.
func NewRateLimitedFetcher(next Fetcher, perMinute int, logger *slog.Logger) Fetcher {
	if perMinute <= 0 {
		return next
	}
	return &rateLimitedFetcher{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		logger:  withProvider(logger, "rate-limiter"),
	}
}

func (p *rateLimitedFetcher) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logging.Warn(p.logger, "rate-limited fetch canceled", logging.FieldEndpoint, endpoint, "error", err)
		return nil, err
	}
	return p.next.Fetch(ctx, endpoint)
}
