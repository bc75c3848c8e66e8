package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/nba-refresh-service/internal/config"
	httpserver "github.com/preston-bernstein/nba-refresh-service/internal/http"
	"github.com/preston-bernstein/nba-refresh-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
	"github.com/preston-bernstein/nba-refresh-service/internal/poller"
	"github.com/preston-bernstein/nba-refresh-service/internal/publisher"
	"github.com/preston-bernstein/nba-refresh-service/internal/refresh"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	refresh       *refresh.Service
	live          liveUpdates
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	streams       io.Closer
}

// New constructs a server with the upstream chain, refresh service, and ops endpoints wired.
func New(cfg config.Config, logger *slog.Logger) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)
	svc := NewRefreshService(cfg, logger, recorder)
	attachLogSubscribers(svc, logger)
	streams := attachStreams(cfg.Redis, svc, logger)
	httpSrv := buildHTTPServer(cfg, logger, recorder, svc.LiveUpdatesStatus)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		refresh:       svc,
		live:          svc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
		streams:       streams,
	}
}

// NewRefreshService builds the refresh service over the configured upstream chain. The CLI uses
// it directly for one-shot commands.
func NewRefreshService(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *refresh.Service {
	loc := resolveLocation(cfg.Balldontlie.Timezone, logger)
	fetcher, name := newProviderFactory(logger).build(cfg, loc)
	return refresh.New(refresh.Options{
		Fetcher:   fetcher,
		Provider:  name,
		Logger:    logger,
		Metrics:   recorder,
		Location:  loc,
		Season:    cfg.Balldontlie.Season,
		MaxPages:  cfg.Balldontlie.MaxPages,
		Interval:  cfg.PollInterval,
		Retries:   cfg.Upstream.Retries,
		RetryStep: cfg.Upstream.RetryStep,
		WarmStart: cfg.WarmStart,
	})
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, live liveUpdates) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		live:       live,
	}
}

func buildHTTPServer(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, statusFn func() poller.Status) httpServer {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	handler := handlers.NewHandler(logger, statusFn)
	router := httpserver.NewRouter(handler, logger, recorder)

	return newOpsServer(cfg.Port, router)
}

// attachLogSubscribers logs one line per published topic update.
func attachLogSubscribers(svc *refresh.Service, logger *slog.Logger) {
	if logger == nil {
		return
	}
	for _, topic := range refresh.Topics() {
		topic := topic
		svc.Subscribe(topic, func(data any) {
			logger.Info("topic updated",
				slog.String(logging.FieldTopic, string(topic)),
				slog.Int(logging.FieldCount, payloadCount(data)),
			)
		})
	}
}

// attachStreams mirrors every topic into Redis streams when configured. The returned closer
// releases the client; nil when streaming is disabled.
func attachStreams(cfg config.RedisConfig, svc *refresh.Service, logger *slog.Logger) io.Closer {
	if !cfg.Enabled() {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pub := publisher.NewStreamPublisher(client, publisher.Config{
		Prefix: cfg.StreamPrefix,
		MaxLen: int64(cfg.MaxLen),
	}, logger)
	pub.Attach(svc)
	if logger != nil {
		logger.Info("redis stream bridge enabled",
			slog.String("addr", cfg.Addr),
			slog.String(logging.FieldStream, cfg.StreamPrefix+".*"),
		)
	}
	return client
}

// Run starts live updates and the HTTP servers, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.live.StartLiveUpdates(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.live.StopLiveUpdates(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop live updates", "error", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.streams != nil {
		if err := s.streams.Close(); err != nil && s.logger != nil {
			s.logger.Warn("redis close failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:           cfg.Metrics.Enabled,
		Port:              cfg.Metrics.Port,
		ServiceName:       cfg.Metrics.ServiceName,
		PrometheusEnabled: cfg.Metrics.PrometheusEnabled,
		OtlpEndpoint:      cfg.Metrics.OtlpEndpoint,
		OtlpInsecure:      cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "error", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = newMetricsServer(recCfg.Port, handler)
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Refresh exposes the refresh service so callers can add subscribers before Run.
func (s *Server) Refresh() *refresh.Service {
	return s.refresh
}
