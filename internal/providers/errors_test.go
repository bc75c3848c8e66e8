package providers

import (
	"fmt"
	"strings"
	"testing"
)

func TestRateLimitErrorString(t *testing.T) {
	err := &RateLimitError{
		Provider:   "p",
		StatusCode: 429,
		Message:    "rate limited",
	}
	if got := err.Error(); got == "" || got == "rate limited" {
		t.Fatalf("expected status in error string, got %q", got)
	}

	rl, ok := AsRateLimitError(fmt.Errorf("wrapped: %w", err))
	if !ok || rl == nil {
		t.Fatalf("expected to unwrap rate limit error")
	}

	noStatus := &RateLimitError{}
	if got := noStatus.Error(); got == "" {
		t.Fatalf("expected fallback message")
	}
}

func TestStatusErrorString(t *testing.T) {
	err := &StatusError{Provider: "balldontlie", StatusCode: 503, Body: "down"}
	if got := err.Error(); !strings.Contains(got, "503") || !strings.Contains(got, "down") {
		t.Fatalf("unexpected error string %q", got)
	}

	statusErr, ok := AsStatusError(fmt.Errorf("fetch: %w", err))
	if !ok || statusErr.StatusCode != 503 {
		t.Fatalf("expected to unwrap status error, got %+v", statusErr)
	}
	if _, ok := AsStatusError(ErrUnknownEndpoint); ok {
		t.Fatal("expected sentinel not to unwrap as status error")
	}
}
