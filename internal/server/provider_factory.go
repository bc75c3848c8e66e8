package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-refresh-service/internal/config"
	"github.com/preston-bernstein/nba-refresh-service/internal/providers"
	"github.com/preston-bernstein/nba-refresh-service/internal/providers/balldontlie"
	"github.com/preston-bernstein/nba-refresh-service/internal/providers/fixture"
	"github.com/preston-bernstein/nba-refresh-service/internal/timeutil"
)

// providerFactory assembles the upstream fetcher with shared wrappers (rate limit + breaker).
// Retries are applied by the refresh service on top of the chain.
type providerFactory struct {
	logger *slog.Logger
}

func newProviderFactory(logger *slog.Logger) providerFactory {
	return providerFactory{logger: logger}
}

func (f providerFactory) build(cfg config.Config, loc *time.Location) (providers.Fetcher, string) {
	base := selectFetcher(cfg, loc, f.logger)
	name := providerName(base)

	fetcher := providers.NewRateLimitedFetcher(base, cfg.Upstream.RatePerMinute, f.logger)
	if cfg.Upstream.BreakerEnabled {
		fetcher = providers.NewBreakerFetcher(fetcher, providers.BreakerConfig{
			Name:     name,
			Failures: cfg.Upstream.BreakerFailures,
			Timeout:  cfg.Upstream.BreakerTimeout,
		}, f.logger)
	}
	return fetcher, name
}

func selectFetcher(cfg config.Config, loc *time.Location, logger *slog.Logger) providers.Fetcher {
	switch strings.ToLower(cfg.Provider) {
	case "fixture":
		return fixture.New(loc)
	case "balldontlie", "":
		return balldontlie.NewClient(balldontlie.Config{
			BaseURL: cfg.Balldontlie.BaseURL,
			APIKey:  cfg.Balldontlie.APIKey,
		})
	default:
		if logger != nil {
			logger.Warn("unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		}
		return fixture.New(loc)
	}
}

// resolveLocation loads the configured zone used for "today", falling back to UTC.
func resolveLocation(tz string, logger *slog.Logger) *time.Location {
	loc, ok := timeutil.LoadZone(tz)
	if !ok && logger != nil {
		logger.Warn("unknown timezone, using UTC", slog.String("timezone", tz))
	}
	return loc
}
