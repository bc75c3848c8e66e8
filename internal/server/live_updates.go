package server

import (
	"context"

	"github.com/preston-bernstein/nba-refresh-service/internal/poller"
)

// liveUpdates is the lifecycle slice of the refresh service the server drives.
type liveUpdates interface {
	StartLiveUpdates(ctx context.Context) bool
	StopLiveUpdates(ctx context.Context) error
	LiveUpdatesStatus() poller.Status
}
