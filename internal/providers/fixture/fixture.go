package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/nba-refresh-service/internal/providers"
	"github.com/preston-bernstein/nba-refresh-service/internal/timeutil"
)

type team struct {
	ID         int    `json:"id"`
	FullName   string `json:"full_name"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

type game struct {
	ID               int    `json:"id"`
	Date             string `json:"date"`
	Status           string `json:"status"`
	Period           int    `json:"period"`
	HomeTeam         team   `json:"home_team"`
	VisitorTeam      team   `json:"visitor_team"`
	HomeTeamScore    int    `json:"home_team_score"`
	VisitorTeamScore int    `json:"visitor_team_score"`
}

type player struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      *team  `json:"team"`
}

type average struct {
	PlayerID int      `json:"player_id"`
	Pts      float64  `json:"pts"`
	Reb      float64  `json:"reb"`
	Ast      float64  `json:"ast"`
	FgPct    *float64 `json:"fg_pct"`
}

var (
	celtics  = team{ID: 2, FullName: "Boston Celtics", Conference: "East", Division: "Atlantic"}
	lakers   = team{ID: 14, FullName: "Los Angeles Lakers", Conference: "West", Division: "Pacific"}
	warriors = team{ID: 10, FullName: "Golden State Warriors", Conference: "West", Division: "Pacific"}
	heat     = team{ID: 16, FullName: "Miami Heat", Conference: "East", Division: "Southeast"}

	allTeams = []team{celtics, lakers, warriors, heat}
)

func pct(v float64) *float64 { return &v }

var (
	allPlayers = []player{
		{ID: 115, FirstName: "Stephen", LastName: "Curry", Position: "G", Team: &warriors},
		{ID: 237, FirstName: "LeBron", LastName: "James", Position: "F", Team: &lakers},
		{ID: 434, FirstName: "Jayson", LastName: "Tatum", Position: "F", Team: &celtics},
		{ID: 999, FirstName: "Free", LastName: "Agent", Position: "", Team: nil},
	}
	averages = map[int]average{
		115: {PlayerID: 115, Pts: 26.4, Reb: 4.5, Ast: 5.1, FgPct: pct(0.450)},
		237: {PlayerID: 237, Pts: 25.7, Reb: 7.3, Ast: 8.3, FgPct: pct(0.540)},
		434: {PlayerID: 434, Pts: 26.9, Reb: 8.1, Ast: 4.9},
	}
)

// Provider serves deterministic balldontlie-shaped JSON for local runs without network access.
// Game dates are relative to the provider clock so "today" always has games.
type Provider struct {
	now func() time.Time
	loc *time.Location
}

// New creates a fixture provider that dates games in loc (UTC when nil).
func New(loc *time.Location) *Provider {
	if loc == nil {
		loc = time.UTC
	}
	return &Provider{
		now: time.Now,
		loc: loc,
	}
}

// WithClock replaces the clock used to date the fixture games.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	if now != nil {
		p.now = now
	}
	return p
}

// Name identifies the provider in logs and metrics.
func (p *Provider) Name() string {
	return "fixture"
}

// Fetch answers the same endpoints the balldontlie client is used for.
func (p *Provider) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("fixture: parse endpoint %q: %w", endpoint, err)
	}
	q := u.Query()

	switch {
	case u.Path == "games":
		return p.games(q)
	case u.Path == "players":
		return listBody(searchPlayers(q.Get("search")))
	case u.Path == "season_averages":
		return p.seasonAverages(q.Get("player_ids[]"))
	case strings.HasPrefix(u.Path, "teams/"):
		return p.team(strings.TrimPrefix(u.Path, "teams/"))
	default:
		return nil, fmt.Errorf("fixture: %w: %s", providers.ErrUnknownEndpoint, endpoint)
	}
}

func (p *Provider) schedule() []game {
	today := p.now().In(p.loc)
	day := func(offset int) string {
		return timeutil.FormatDate(today.AddDate(0, 0, offset))
	}
	return []game{
		{ID: 1001, Date: day(-2), Status: "Final", Period: 4, HomeTeam: celtics, VisitorTeam: heat, HomeTeamScore: 100, VisitorTeamScore: 95},
		{ID: 1002, Date: day(-1), Status: "Final", Period: 4, HomeTeam: lakers, VisitorTeam: celtics, HomeTeamScore: 110, VisitorTeamScore: 80},
		{ID: 1003, Date: day(0), Status: "3rd Qtr", Period: 3, HomeTeam: warriors, VisitorTeam: heat, HomeTeamScore: 78, VisitorTeamScore: 74},
		{ID: 1004, Date: day(0), Status: "7:30 pm ET", HomeTeam: celtics, VisitorTeam: lakers},
		{ID: 1005, Date: day(1), Status: "8:00 pm ET", HomeTeam: heat, VisitorTeam: warriors},
	}
}

func (p *Provider) games(q url.Values) ([]byte, error) {
	all := p.schedule()

	if raw := q.Get("team_ids[]"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("fixture: team id %q: %w", raw, err)
		}
		out := make([]game, 0, len(all))
		for _, g := range all {
			if g.HomeTeam.ID == id || g.VisitorTeam.ID == id {
				out = append(out, g)
			}
		}
		return listBody(out)
	}

	if from := q.Get("start_date"); from != "" {
		out := make([]game, 0, len(all))
		for _, g := range all {
			if g.Date >= from {
				out = append(out, g)
			}
		}
		return listBody(out)
	}

	return listBody(all)
}

func searchPlayers(query string) []player {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]player, 0, len(allPlayers))
	for _, pl := range allPlayers {
		name := strings.ToLower(pl.FirstName + " " + pl.LastName)
		if query == "" || strings.Contains(name, query) {
			out = append(out, pl)
		}
	}
	return out
}

func (p *Provider) seasonAverages(raw string) ([]byte, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("fixture: player id %q: %w", raw, err)
	}
	avg, ok := averages[id]
	if !ok {
		return listBody([]average{})
	}
	return listBody([]average{avg})
}

func (p *Provider) team(raw string) ([]byte, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("fixture: team id %q: %w", raw, err)
	}
	for _, t := range allTeams {
		if t.ID == id {
			return json.Marshal(struct {
				Data team `json:"data"`
			}{Data: t})
		}
	}
	return nil, fmt.Errorf("fixture: %w: teams/%d", providers.ErrUnknownEndpoint, id)
}

func listBody[T any](data []T) ([]byte, error) {
	return json.Marshal(struct {
		Data []T `json:"data"`
	}{Data: data})
}
