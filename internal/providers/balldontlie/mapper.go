package balldontlie

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-refresh-service/internal/domain/games"
	"github.com/preston-bernstein/nba-refresh-service/internal/domain/players"
	"github.com/preston-bernstein/nba-refresh-service/internal/domain/teams"
	"github.com/preston-bernstein/nba-refresh-service/internal/timeutil"
)

// DecodeLiveGames keeps the games played on day (YYYY-MM-DD, evaluated in loc) and maps them
// to live-score records.
func DecodeLiveGames(body []byte, day string, loc *time.Location) ([]games.Game, error) {
	out, _, err := DecodeLiveGamesPage(body, day, loc)
	return out, err
}

// DecodeLiveGamesPage is DecodeLiveGames for one page of a paginated listing. next is the
// cursor of the following page, zero on the last one.
func DecodeLiveGamesPage(body []byte, day string, loc *time.Location) (out []games.Game, next int, err error) {
	var payload gamesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, fmt.Errorf("balldontlie: decode games: %w", err)
	}

	out = make([]games.Game, 0, len(payload.Data))
	for _, g := range payload.Data {
		played, err := timeutil.ParseGameTime(g.Date, loc)
		if err != nil || timeutil.FormatDate(played) != day {
			continue
		}
		out = append(out, mapGame(g))
	}
	return out, payload.Meta.NextCursor, nil
}

// DecodeSchedule maps every game in the body to a schedule entry.
func DecodeSchedule(body []byte, loc *time.Location) ([]games.Scheduled, error) {
	var payload gamesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("balldontlie: decode schedule: %w", err)
	}

	out := make([]games.Scheduled, 0, len(payload.Data))
	for _, g := range payload.Data {
		date, _ := timeutil.ParseGameTime(g.Date, loc)
		out = append(out, games.Scheduled{
			ID:       g.ID,
			HomeTeam: g.HomeTeam.FullName,
			AwayTeam: g.VisitorTeam.FullName,
			Date:     date,
			Status:   g.Status,
			Arena:    games.ArenaTBD,
		})
	}
	return out, nil
}

// DecodeGameResults extracts the scores needed for team averages.
func DecodeGameResults(body []byte) ([]teams.GameResult, error) {
	var payload gamesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("balldontlie: decode team games: %w", err)
	}

	out := make([]teams.GameResult, 0, len(payload.Data))
	for _, g := range payload.Data {
		out = append(out, teams.GameResult{
			HomeTeamID:    g.HomeTeam.ID,
			VisitorTeamID: g.VisitorTeam.ID,
			HomeScore:     g.HomeTeamScore,
			VisitorScore:  g.VisitorTeamScore,
		})
	}
	return out, nil
}

// DecodeTeam reads a team from either a {"data": {...}} envelope or a bare object.
func DecodeTeam(body []byte) (teams.Team, error) {
	var env teamEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return teams.Team{}, fmt.Errorf("balldontlie: decode team: %w", err)
	}
	t := env.teamResponse
	if env.Data != nil {
		t = *env.Data
	}
	return teams.Team{
		ID:         t.ID,
		FullName:   t.FullName,
		Conference: t.Conference,
		Division:   t.Division,
	}, nil
}

// DecodePlayers maps search results to stat lines with identity fields set and zero averages.
func DecodePlayers(body []byte) ([]players.Stats, error) {
	var payload playersResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("balldontlie: decode players: %w", err)
	}

	out := make([]players.Stats, 0, len(payload.Data))
	for _, p := range payload.Data {
		stats := players.Stats{
			ID:       p.ID,
			Name:     strings.TrimSpace(p.FirstName + " " + p.LastName),
			Position: p.Position,
		}
		if p.Team != nil {
			stats.Team = p.Team.FullName
		}
		out = append(out, stats)
	}
	return out, nil
}

// SeasonAverage is one player's season line. The zero value stands for "no data".
type SeasonAverage struct {
	PPG          float64
	RPG          float64
	APG          float64
	FGPercentage float64
}

// DecodeSeasonAverage reads the first season average in the body; an empty list is the zero value.
func DecodeSeasonAverage(body []byte) (SeasonAverage, error) {
	var payload seasonAveragesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return SeasonAverage{}, fmt.Errorf("balldontlie: decode season averages: %w", err)
	}
	if len(payload.Data) == 0 {
		return SeasonAverage{}, nil
	}
	avg := payload.Data[0]
	return SeasonAverage{
		PPG:          avg.Pts,
		RPG:          avg.Reb,
		APG:          avg.Ast,
		FGPercentage: fgPercentage(avg.FgPct),
	}, nil
}

// Apply copies the averages onto a player's stat line.
func (a SeasonAverage) Apply(s players.Stats) players.Stats {
	s.PPG = a.PPG
	s.RPG = a.RPG
	s.APG = a.APG
	s.FGPercentage = a.FGPercentage
	return s
}

// fgPercentage turns a 0..1 ratio into a percentage with one decimal.
func fgPercentage(ratio float64) float64 {
	if ratio == 0 || math.IsNaN(ratio) {
		return 0
	}
	return math.Round(ratio*1000) / 10
}

func mapGame(g gameResponse) games.Game {
	return games.Game{
		ID:        g.ID,
		HomeTeam:  g.HomeTeam.FullName,
		HomeScore: g.HomeTeamScore,
		AwayTeam:  g.VisitorTeam.FullName,
		AwayScore: g.VisitorTeamScore,
		Status:    g.Status,
		Period:    g.Period,
		State:     mapStatus(g.Status, g.Period),
	}
}

// mapStatus normalizes the upstream display status. Before tip-off the upstream puts the
// start time in status, so an unknown string with no period played is scheduled.
func mapStatus(status string, period int) games.GameStatus {
	switch s := strings.ToLower(strings.TrimSpace(status)); {
	case s == "final" || s == "ended":
		return games.StatusFinal
	case s == "postponed":
		return games.StatusPostponed
	case s == "canceled" || s == "cancelled":
		return games.StatusCanceled
	case s == "in progress" || s == "halftime" || s == "end of period" || strings.HasSuffix(s, "qtr") || strings.HasPrefix(s, "ot"):
		return games.StatusInProgress
	case period > 0:
		return games.StatusInProgress
	default:
		return games.StatusScheduled
	}
}
