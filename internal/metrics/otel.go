package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled           bool
	Port              string
	ServiceName       string
	PrometheusEnabled bool
	OtlpEndpoint      string
	OtlpInsecure      bool
}

const defaultServiceName = "nba-refresh-service"

// Setup configures OpenTelemetry metrics with a Prometheus exporter and optional OTLP exporter.
// It returns a Recorder, the Prometheus HTTP handler (nil when Prometheus is off), and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = defaultServiceName
	}

	var (
		opts        []sdkmetric.Option
		promHandler http.Handler
	)
	if cfg.PrometheusEnabled {
		promReader, handler, err := promReaderFactory()
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(promReader))
		promHandler = handler
	}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider, cfg.ServiceName)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

// otelInstruments mirrors the Recorder's in-memory counters onto OTel instruments.
type otelInstruments struct {
	ctx context.Context

	requests       metric.Int64Counter
	requestLatency metric.Float64Histogram

	providerAttempts metric.Int64Counter
	providerErrors   metric.Int64Counter
	providerLatency  metric.Float64Histogram
	rateLimitHits    metric.Int64Counter
	retryAfter       metric.Float64Histogram
	retries          metric.Int64Counter
	retryDelay       metric.Float64Histogram

	pollerCycles  metric.Int64Counter
	pollerErrors  metric.Int64Counter
	pollerLatency metric.Float64Histogram

	notifications    metric.Int64Counter
	deliveries       metric.Int64Counter
	subscriberPanics metric.Int64Counter
}

// instrumentSet creates instruments on one meter and keeps the first error.
type instrumentSet struct {
	meter metric.Meter
	err   error
}

func (s *instrumentSet) counter(name, desc string) metric.Int64Counter {
	c, err := s.meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil && s.err == nil {
		s.err = fmt.Errorf("counter %s: %w", name, err)
	}
	return c
}

func (s *instrumentSet) histogram(name, desc string) metric.Float64Histogram {
	h, err := s.meter.Float64Histogram(name, metric.WithDescription(desc))
	if err != nil && s.err == nil {
		s.err = fmt.Errorf("histogram %s: %w", name, err)
	}
	return h
}

func newOtelInstruments(provider metric.MeterProvider, name string) (*otelInstruments, error) {
	set := &instrumentSet{meter: provider.Meter(name)}
	inst := &otelInstruments{
		ctx: context.Background(),

		requests:       set.counter("http_requests_total", "Ops HTTP requests served."),
		requestLatency: set.histogram("http_request_duration_ms", "Ops HTTP request latency in milliseconds."),

		providerAttempts: set.counter("provider_attempts_total", "Upstream fetch attempts."),
		providerErrors:   set.counter("provider_errors_total", "Failed upstream fetch attempts."),
		providerLatency:  set.histogram("provider_duration_ms", "Upstream fetch latency in milliseconds."),
		rateLimitHits:    set.counter("provider_rate_limit_hits_total", "Upstream 429 responses."),
		retryAfter:       set.histogram("provider_retry_after_ms", "Retry-After advertised by the upstream in milliseconds."),
		retries:          set.counter("provider_retries_total", "Scheduled upstream retries."),
		retryDelay:       set.histogram("provider_retry_delay_ms", "Backoff before each retry in milliseconds."),

		pollerCycles:  set.counter("poller_cycles_total", "Completed refresh cycles."),
		pollerErrors:  set.counter("poller_errors_total", "Refresh cycles that failed."),
		pollerLatency: set.histogram("poller_cycle_duration_ms", "Refresh cycle duration in milliseconds."),

		notifications:    set.counter("topic_notifications_total", "Topic publishes."),
		deliveries:       set.counter("topic_deliveries_total", "Callbacks invoked by topic publishes."),
		subscriberPanics: set.counter("subscriber_panics_total", "Subscriber callbacks that panicked."),
	}
	if set.err != nil {
		return nil, set.err
	}
	return inst, nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (o *otelInstruments) recordHTTPRequest(method, path string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(AttrMethod, method),
		attribute.String(AttrPath, path),
		attribute.Int(AttrStatus, status),
	)
	o.requests.Add(o.ctx, 1, attrs)
	o.requestLatency.Record(o.ctx, millis(duration), attrs)
}

func (o *otelInstruments) recordProviderAttempt(provider string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String(AttrProvider, provider))
	o.providerAttempts.Add(o.ctx, 1, attrs)
	o.providerLatency.Record(o.ctx, millis(duration), attrs)
	if err != nil {
		o.providerErrors.Add(o.ctx, 1, attrs)
	}
}

func (o *otelInstruments) recordRateLimit(provider string, retryAfter time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrProvider, provider))
	o.rateLimitHits.Add(o.ctx, 1, attrs)
	if retryAfter > 0 {
		o.retryAfter.Record(o.ctx, millis(retryAfter), attrs)
	}
}

func (o *otelInstruments) recordRetry(provider string, delay time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrProvider, provider))
	o.retries.Add(o.ctx, 1, attrs)
	o.retryDelay.Record(o.ctx, millis(delay), attrs)
}

func (o *otelInstruments) recordNotification(topic string, delivered, panicked int) {
	attrs := metric.WithAttributes(attribute.String(AttrTopic, topic))
	o.notifications.Add(o.ctx, 1, attrs)
	if delivered > 0 {
		o.deliveries.Add(o.ctx, int64(delivered), attrs)
	}
	if panicked > 0 {
		o.subscriberPanics.Add(o.ctx, int64(panicked), attrs)
	}
}

func (o *otelInstruments) recordPoller(name string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String(AttrPoller, name))
	o.pollerCycles.Add(o.ctx, 1, attrs)
	o.pollerLatency.Record(o.ctx, millis(duration), attrs)
	if err != nil {
		o.pollerErrors.Add(o.ctx, 1, attrs)
	}
}
