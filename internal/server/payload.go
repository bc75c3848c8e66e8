package server

import (
	"github.com/preston-bernstein/nba-refresh-service/internal/domain/games"
	"github.com/preston-bernstein/nba-refresh-service/internal/domain/players"
	"github.com/preston-bernstein/nba-refresh-service/internal/domain/teams"
)

// payloadCount reports how many records a topic payload carries.
func payloadCount(data any) int {
	switch v := data.(type) {
	case []games.Game:
		return len(v)
	case []games.Scheduled:
		return len(v)
	case []players.Stats:
		return len(v)
	case *teams.Stats:
		if v == nil {
			return 0
		}
		return 1
	case nil:
		return 0
	default:
		return 1
	}
}
