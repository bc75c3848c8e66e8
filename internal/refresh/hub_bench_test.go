package refresh

import (
	"testing"

	"github.com/preston-bernstein/nba-refresh-service/internal/domain/games"
	"github.com/preston-bernstein/nba-refresh-service/internal/metrics"
)

func BenchmarkHubNotify(b *testing.B) {
	h := NewHub(nil, metrics.NewRecorder())
	for i := 0; i < 8; i++ {
		h.Subscribe(TopicLiveGames, func(any) {})
	}
	payload := []games.Game{{ID: 1, HomeTeam: "Boston Celtics", AwayTeam: "Los Angeles Lakers"}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.Notify(TopicLiveGames, payload)
	}
}

func BenchmarkHubSubscribeUnsubscribe(b *testing.B) {
	h := NewHub(nil, nil)
	h.Subscribe(TopicSchedule, func(any) {})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sub := h.Subscribe(TopicSchedule, func(any) {})
		h.Unsubscribe(sub)
	}
}
