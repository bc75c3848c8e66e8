package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	retries         int
	lastRetryAfter  time.Duration
	lastRetryDelay  time.Duration
	lastCallLatency time.Duration
}

type topicStats struct {
	notifications int
	deliveries    int
	panics        int
}

type pollerStats struct {
	cycles int
	errors int
}

// Recorder captures lightweight, in-memory metrics about upstream calls, topic fan-out and
// poll cycles, and forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*providerStats
	topics  map[string]*topicStats
	pollers map[string]*pollerStats
	otel    *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:   make(map[string]*providerStats),
		topics:  make(map[string]*topicStats),
		pollers: make(map[string]*pollerStats),
		otel:    otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.withStats(provider, func(stats *providerStats) {
		stats.calls++
		stats.lastCallLatency = duration
		if err != nil {
			stats.errors++
		}
	})
	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.withStats(provider, func(stats *providerStats) {
		stats.rateLimitHits++
		if retryAfter > 0 {
			stats.lastRetryAfter = retryAfter
		}
	})
	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordRetry tracks a scheduled retry and the backoff that precedes it.
func (r *Recorder) RecordRetry(provider string, delay time.Duration) {
	if r == nil {
		return
	}

	r.withStats(provider, func(stats *providerStats) {
		stats.retries++
		stats.lastRetryDelay = delay
	})
	if r.otel != nil {
		r.otel.recordRetry(provider, delay)
	}
}

// RecordNotification tracks one fan-out on a topic: how many callbacks ran and how many panicked.
func (r *Recorder) RecordNotification(topic string, delivered, panicked int) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.topics[topic]
	if !ok {
		stats = &topicStats{}
		r.topics[topic] = stats
	}
	stats.notifications++
	stats.deliveries += delivered
	stats.panics += panicked
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordNotification(topic, delivered, panicked)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	Retries         int
	LastRetryAfter  time.Duration
	LastRetryDelay  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		Retries:         stats.retries,
		LastRetryAfter:  stats.lastRetryAfter,
		LastRetryDelay:  stats.lastRetryDelay,
		LastCallLatency: stats.lastCallLatency,
	}
}

// TopicSnapshot is a copy of the fan-out counters for one topic.
type TopicSnapshot struct {
	Notifications int
	Deliveries    int
	Panics        int
}

func (r *Recorder) TopicSnapshot(topic string) TopicSnapshot {
	if r == nil {
		return TopicSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.topics[topic]
	if !ok {
		return TopicSnapshot{}
	}
	return TopicSnapshot{
		Notifications: stats.notifications,
		Deliveries:    stats.deliveries,
		Panics:        stats.panics,
	}
}

// PollerCycles returns the number of completed cycles of the named poller and how many failed.
func (r *Recorder) PollerCycles(name string) (cycles, errors int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.pollers[name]
	if !ok {
		return 0, 0
	}
	return stats.cycles, stats.errors
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks one refresh cycle of the named poller.
func (r *Recorder) RecordPollerCycle(name string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats, ok := r.pollers[name]
	if !ok {
		stats = &pollerStats{}
		r.pollers[name] = stats
	}
	stats.cycles++
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordPoller(name, duration, err)
	}
}

func (r *Recorder) withStats(provider string, fn func(*providerStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	fn(stats)
}
