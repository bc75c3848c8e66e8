// Package publisher forwards refresh topic payloads to Redis streams so consumers outside the
// process can follow them.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
	"github.com/preston-bernstein/nba-refresh-service/internal/refresh"
)

const (
	defaultPrefix  = "refresh"
	defaultMaxLen  = 1000
	defaultTimeout = 2 * time.Second
)

// StreamAdder is the slice of the redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Subscriber registers topic callbacks; *refresh.Service satisfies it.
type Subscriber interface {
	Subscribe(topic refresh.Topic, cb refresh.Callback) refresh.Subscription
}

// Config tunes a StreamPublisher. Zero values use the defaults.
type Config struct {
	Prefix  string
	MaxLen  int64
	Timeout time.Duration
}

// Entry is the JSON document written to a stream.
type Entry struct {
	Topic       string    `json:"topic"`
	Data        any       `json:"data"`
	PublishedAt time.Time `json:"published_at"`
}

// StreamPublisher writes topic payloads to "<prefix>.<topic>" streams.
type StreamPublisher struct {
	client  StreamAdder
	prefix  string
	maxLen  int64
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewStreamPublisher builds a publisher around client.
func NewStreamPublisher(client StreamAdder, cfg Config, logger *slog.Logger) *StreamPublisher {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	if cfg.MaxLen <= 0 {
		cfg.MaxLen = defaultMaxLen
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &StreamPublisher{
		client:  client,
		prefix:  cfg.Prefix,
		maxLen:  cfg.MaxLen,
		timeout: cfg.Timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// StreamName returns the stream a topic is written to.
func (p *StreamPublisher) StreamName(topic refresh.Topic) string {
	return p.prefix + "." + string(topic)
}

// Publish appends one entry for topic and returns the stream entry ID.
func (p *StreamPublisher) Publish(ctx context.Context, topic refresh.Topic, data any) (string, error) {
	payload, err := json.Marshal(Entry{Topic: string(topic), Data: data, PublishedAt: p.now().UTC()})
	if err != nil {
		return "", fmt.Errorf("publisher: encode %s: %w", topic, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.StreamName(topic),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{"payload": string(payload)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("publisher: xadd %s: %w", p.StreamName(topic), err)
	}
	return id, nil
}

// Callback adapts Publish to a topic subscriber. Errors are logged, never raised, so other
// subscribers on the topic still run.
func (p *StreamPublisher) Callback(topic refresh.Topic) refresh.Callback {
	return func(data any) {
		id, err := p.Publish(context.Background(), topic, data)
		if err != nil {
			logging.Warn(p.logger, "stream publish failed",
				logging.FieldTopic, string(topic),
				logging.FieldStream, p.StreamName(topic),
				"error", err,
			)
			return
		}
		logging.Debug(p.logger, "stream entry published",
			logging.FieldTopic, string(topic),
			logging.FieldStream, p.StreamName(topic),
			"entry_id", id,
		)
	}
}

// Attach subscribes the publisher to each topic (every refresh topic when none are given).
func (p *StreamPublisher) Attach(sub Subscriber, topics ...refresh.Topic) []refresh.Subscription {
	if len(topics) == 0 {
		topics = refresh.Topics()
	}
	subs := make([]refresh.Subscription, 0, len(topics))
	for _, topic := range topics {
		subs = append(subs, sub.Subscribe(topic, p.Callback(topic)))
	}
	return subs
}
