package config

import "time"

const (
	envPort            = "PORT"
	envPollInterval    = "POLL_INTERVAL"
	envProvider        = "PROVIDER"
	envWarmStart       = "LIVE_UPDATES_WARM_START"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envPrometheusOn    = "METRICS_PROMETHEUS_ENABLED"
	envMetricsService  = "METRICS_SERVICE_NAME"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	envFetchRetries    = "FETCH_RETRIES"
	envRetryStep       = "RETRY_BACKOFF_STEP"
	envRatePerMinute   = "UPSTREAM_RATE_PER_MIN"
	envBreakerOn       = "CIRCUIT_BREAKER_ENABLED"
	envBreakerFailures = "CIRCUIT_BREAKER_FAILURES"
	envBreakerTimeout  = "CIRCUIT_BREAKER_TIMEOUT"
	envRedisAddr       = "REDIS_ADDR"
	envRedisPassword   = "REDIS_PASSWORD"
	envRedisDB         = "REDIS_DB"
	envRedisPrefix     = "REDIS_STREAM_PREFIX"
	envRedisMaxLen     = "REDIS_STREAM_MAXLEN"

	defaultPort = "4000"
	// Live scores go stale quickly; the portal ticker refreshes every 30 seconds.
	defaultPollInterval    = 30 * Duration(time.Second)
	defaultProvider        = "balldontlie"
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultMetricsPort     = "9090"
	defaultMetricsService  = "nba-refresh-service"
	defaultFetchRetries    = 3
	defaultRetryStep       = Duration(time.Second)
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = Duration(time.Minute)
	defaultRedisPrefix     = "refresh"
	defaultRedisMaxLen     = 1000
)
