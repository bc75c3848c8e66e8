package providers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
	"github.com/preston-bernstein/nba-refresh-service/internal/testutil"
)

type flakeyFetcher struct {
	failures int
	calls    int
	err      error
}

func (f *flakeyFetcher) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	_ = ctx
	_ = endpoint
	f.calls++
	if f.calls <= f.failures {
		if f.err != nil {
			return nil, f.err
		}
		return nil, errors.New("boom")
	}
	return []byte(`{"data":[]}`), nil
}

func newTestRetrier(timer *testutil.RecordingTimer, rec *metrics.Recorder) *Retrier {
	logger, _ := testutil.NewBufferLogger()
	return NewRetrier(RetryConfig{
		Provider: "flakey",
		Logger:   logger,
		Metrics:  rec,
		NewTimer: func() backoff.Timer { return timer },
	})
}

func TestRetrierRetriesAndSucceeds(t *testing.T) {
	ff := &flakeyFetcher{failures: 2}
	timer := testutil.NewRecordingTimer()

	body, err := newTestRetrier(timer, metrics.NewRecorder()).Fetch(context.Background(), ff, "games", 3)
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if string(body) != `{"data":[]}` {
		t.Fatalf("unexpected body %s", body)
	}
	if ff.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", ff.calls)
	}
}

func TestRetrierFailsAfterExactAttemptsWithLinearDelays(t *testing.T) {
	ff := &flakeyFetcher{failures: 10, err: errors.New("last failure")}
	timer := testutil.NewRecordingTimer()
	rec := metrics.NewRecorder()

	_, err := newTestRetrier(timer, rec).Fetch(context.Background(), ff, "games", 3)
	if err == nil || err.Error() != "last failure" {
		t.Fatalf("expected last error to propagate, got %v", err)
	}
	if ff.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", ff.calls)
	}
	delays := timer.Delays()
	if len(delays) != 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
		t.Fatalf("expected delays [1s 2s], got %v", delays)
	}
	snap := rec.Snapshot("flakey")
	if snap.Calls != 3 || snap.Errors != 3 || snap.Retries != 2 {
		t.Fatalf("unexpected metrics snapshot %+v", snap)
	}
}

func TestRetrierLogsWarningPerFailedAttempt(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	ff := &flakeyFetcher{failures: 10}
	timer := testutil.NewRecordingTimer()
	r := NewRetrier(RetryConfig{
		Provider: "flakey",
		Logger:   logger,
		NewTimer: func() backoff.Timer { return timer },
	})

	_, _ = r.Fetch(context.Background(), ff, "teams/1", 3)

	if got := strings.Count(buf.String(), "upstream fetch attempt failed"); got != 3 {
		t.Fatalf("expected 3 warnings, got %d: %s", got, buf.String())
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "endpoint=teams/1") {
		t.Fatalf("expected warn entries with endpoint, got %s", buf.String())
	}
}

func TestRetrierDefaultsAttempts(t *testing.T) {
	ff := &flakeyFetcher{failures: 10}
	timer := testutil.NewRecordingTimer()
	r := newTestRetrier(timer, nil)

	if r.Attempts() != 3 {
		t.Fatalf("expected default 3 attempts, got %d", r.Attempts())
	}
	_, _ = r.Fetch(context.Background(), ff, "games", 0)
	if ff.calls != 3 {
		t.Fatalf("expected default attempts used, got %d", ff.calls)
	}
}

func TestRetrierSingleAttemptDoesNotWait(t *testing.T) {
	ff := &flakeyFetcher{failures: 10}
	timer := testutil.NewRecordingTimer()

	_, err := newTestRetrier(timer, nil).Fetch(context.Background(), ff, "games", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if ff.calls != 1 || len(timer.Delays()) != 0 {
		t.Fatalf("expected one attempt and no waits, got %d calls %v", ff.calls, timer.Delays())
	}
}

func TestRetrierRespectsContextCancel(t *testing.T) {
	ff := &flakeyFetcher{failures: 5}
	r := NewRetrier(RetryConfig{Provider: "flakey", Step: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Fetch(ctx, ff, "games", 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if ff.calls != 1 {
		t.Fatalf("expected no retries after cancel, got %d calls", ff.calls)
	}
}

func TestRetrierRecordsRateLimits(t *testing.T) {
	ff := &flakeyFetcher{failures: 1, err: &RateLimitError{Provider: "flakey", StatusCode: 429, RetryAfter: 5 * time.Second}}
	rec := metrics.NewRecorder()

	if _, err := newTestRetrier(testutil.NewRecordingTimer(), rec).Fetch(context.Background(), ff, "games", 3); err != nil {
		t.Fatalf("expected success after rate limit, got %v", err)
	}
	if rec.RateLimitHits("flakey") != 1 || rec.LastRetryAfter("flakey") != 5*time.Second {
		t.Fatalf("expected rate limit recorded, got %+v", rec.Snapshot("flakey"))
	}
}

func TestLinearBackOffResets(t *testing.T) {
	b := &linearBackOff{step: 10 * time.Millisecond}
	if b.NextBackOff() != 10*time.Millisecond || b.NextBackOff() != 20*time.Millisecond {
		t.Fatal("expected linear growth")
	}
	b.Reset()
	if b.NextBackOff() != 10*time.Millisecond {
		t.Fatal("expected reset to restart at one step")
	}
}
