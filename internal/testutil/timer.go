package testutil

import (
	"sync"
	"time"
)

// RecordingTimer satisfies backoff.Timer. It fires immediately and records every requested
// delay so retry schedules can be asserted without sleeping.
type RecordingTimer struct {
	mu     sync.Mutex
	delays []time.Duration
	c      chan time.Time
}

// NewRecordingTimer returns a timer ready to be handed to a retrier.
func NewRecordingTimer() *RecordingTimer {
	return &RecordingTimer{c: make(chan time.Time, 1)}
}

func (t *RecordingTimer) Start(d time.Duration) {
	t.mu.Lock()
	t.delays = append(t.delays, d)
	t.mu.Unlock()
	select {
	case t.c <- time.Time{}:
	default:
	}
}

func (t *RecordingTimer) Stop() {}

func (t *RecordingTimer) C() <-chan time.Time {
	return t.c
}

// Delays returns a copy of the delays requested so far.
func (t *RecordingTimer) Delays() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]time.Duration, len(t.delays))
	copy(out, t.delays)
	return out
}
