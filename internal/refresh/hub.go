package refresh

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
)

// Callback receives the payload published to a topic.
type Callback func(data any)

// Subscription identifies one registration; pass it to Unsubscribe to remove it.
type Subscription struct {
	ID    string
	Topic Topic
}

type subscriber struct {
	id string
	cb Callback
}

// Hub is an in-process topic registry with synchronous, ordered delivery.
type Hub struct {
	mu      sync.RWMutex
	topics  map[Topic][]subscriber
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewHub builds an empty hub. Logger and recorder may be nil.
func NewHub(logger *slog.Logger, recorder *metrics.Recorder) *Hub {
	return &Hub{
		topics:  make(map[Topic][]subscriber),
		logger:  logger,
		metrics: recorder,
	}
}

// Subscribe appends cb to the topic's list. The same function may be registered more than once;
// each registration is delivered to and removed independently.
func (h *Hub) Subscribe(topic Topic, cb Callback) Subscription {
	sub := Subscription{ID: uuid.NewString(), Topic: topic}
	if cb == nil {
		return sub
	}

	h.mu.Lock()
	h.topics[topic] = append(h.topics[topic], subscriber{id: sub.ID, cb: cb})
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes exactly the registration behind sub. It reports false when sub is unknown
// or was already removed.
func (h *Hub) Unsubscribe(sub Subscription) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.topics[sub.Topic]
	for i, s := range list {
		if s.id != sub.ID {
			continue
		}
		next := make([]subscriber, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(h.topics, sub.Topic)
		} else {
			h.topics[sub.Topic] = next
		}
		return true
	}
	return false
}

// Notify calls every callback registered on topic, in registration order, on the caller's
// goroutine. A panicking callback is logged and skipped.
func (h *Hub) Notify(topic Topic, data any) {
	h.mu.RLock()
	list := h.topics[topic]
	h.mu.RUnlock()
	if len(list) == 0 {
		return
	}

	panicked := 0
	for _, s := range list {
		if !h.deliver(topic, s, data) {
			panicked++
		}
	}
	h.metrics.RecordNotification(string(topic), len(list), panicked)
}

// Subscribers returns how many callbacks are registered on topic.
func (h *Hub) Subscribers(topic Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) deliver(topic Topic, s subscriber, data any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			logging.Error(h.logger, "subscriber panicked", fmt.Errorf("panic: %v", r),
				logging.FieldTopic, string(topic),
				logging.FieldSubscriber, s.id,
			)
		}
	}()
	s.cb(data)
	return true
}
