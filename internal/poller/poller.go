package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
)

const (
	defaultInterval = 30 * time.Second
	// Readiness tolerates a couple of failed cycles before reporting unhealthy.
	maxConsecutiveFailures = 3
)

// RefreshFunc runs one poll cycle and reports how many records it produced.
type RefreshFunc func(ctx context.Context) (int, error)

// Options tune a Poller. Zero values use a 30s interval and no warm start.
type Options struct {
	Name     string
	Interval time.Duration
	// WarmStart runs a cycle immediately instead of waiting one interval.
	WarmStart bool
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
}

// Poller runs a refresh function on a fixed interval until stopped.
type Poller struct {
	name     string
	refresh  RefreshFunc
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	warm     bool

	runMu sync.Mutex
	run   *loop

	statusMu sync.RWMutex
	status   Status
}

// loop is one Start..exit span. A new one is made on every successful Start.
type loop struct {
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

func (l *loop) stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Status describes the recent health of the poller loop.
type Status struct {
	Started             bool
	Interval            time.Duration
	ConsecutiveFailures int
	LastError           string
	LastCount           int
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the loop is running and not failing repeatedly.
func (s Status) IsReady() bool {
	return s.Started && s.ConsecutiveFailures < maxConsecutiveFailures
}

// New constructs a Poller with sane defaults.
func New(refresh RefreshFunc, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.Name == "" {
		opts.Name = "poller"
	}
	return &Poller{
		name:     opts.Name,
		refresh:  refresh,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		interval: opts.Interval,
		warm:     opts.WarmStart,
		status:   Status{Interval: opts.Interval},
	}
}

// Start begins polling until the context is cancelled or Stop is called. It reports false while
// a loop is still running. Once the loop has exited, through Stop or ctx, Start runs a new one.
func (p *Poller) Start(ctx context.Context) bool {
	p.runMu.Lock()
	if p.run != nil {
		p.runMu.Unlock()
		return false
	}
	l := &loop{done: make(chan struct{}), exited: make(chan struct{})}
	p.run = l
	p.statusMu.Lock()
	p.status.Started = true
	p.statusMu.Unlock()
	p.runMu.Unlock()

	go p.poll(ctx, l)
	return true
}

func (p *Poller) poll(ctx context.Context, l *loop) {
	ticker := time.NewTicker(p.interval)
	defer func() {
		ticker.Stop()
		p.halt(l)
	}()

	p.logInfo("poller started", logging.Millis(logging.FieldDurationMS, p.interval))
	if p.warm {
		p.runOnce(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

// Stop halts the polling loop and waits for an in-flight cycle to finish or ctx to end.
// It is safe to call more than once and before Start.
func (p *Poller) Stop(ctx context.Context) error {
	p.runMu.Lock()
	l := p.run
	p.runMu.Unlock()
	if l == nil {
		return nil
	}

	l.stop()
	select {
	case <-l.exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// halt releases the loop slot so a later Start can run again.
func (p *Poller) halt(l *loop) {
	p.runMu.Lock()
	if p.run == l {
		p.run = nil
	}
	p.statusMu.Lock()
	p.status.Started = false
	p.statusMu.Unlock()
	p.runMu.Unlock()

	p.logInfo("poller stopped")
	close(l.exited)
}

func (p *Poller) runOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)
	count, err := p.refresh(ctx)
	p.metrics.RecordPollerCycle(p.name, time.Since(start), err)
	if err != nil {
		p.logError("poller cycle failed", err, logging.Millis(logging.FieldDurationMS, time.Since(start)))
		p.recordFailure(err, start)
		return
	}

	p.recordSuccess(start, count)
	p.logInfo("poller cycle complete",
		logging.FieldCount, count,
		logging.Millis(logging.FieldDurationMS, time.Since(start)),
	)
}

func (p *Poller) logInfo(msg string, args ...any) {
	logging.Info(p.logger, msg, append(args, "poller", p.name)...)
}

func (p *Poller) logError(msg string, err error, attrs ...any) {
	logging.Error(p.logger, msg, err, append(attrs, "poller", p.name)...)
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, count int) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastCount = count
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
