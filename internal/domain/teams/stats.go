package teams

import "math"

// Per-game box-score estimates derived from points scored. These are placeholders
// until real rebound and assist data is wired in; keep them exact.
const (
	reboundsPerPoint = 0.8
	assistsPerPoint  = 0.4
)

// GameResult is the slice of a game needed to compute team averages.
type GameResult struct {
	HomeTeamID    int
	VisitorTeamID int
	HomeScore     int
	VisitorScore  int
}

// Averages are per-game figures rounded to one decimal, with WinRate rounded to three.
type Averages struct {
	PPG     float64 `json:"ppg"`
	RPG     float64 `json:"rpg"`
	APG     float64 `json:"apg"`
	WinRate float64 `json:"winRate"`
}

// CalculateTeamStats averages points, estimated rebounds and assists, and win rate for teamID
// across games. A game where teamID is not the home team counts as an away game.
// No games yields all zeros.
func CalculateTeamStats(games []GameResult, teamID int) Averages {
	if len(games) == 0 {
		return Averages{}
	}

	var points, rebounds, assists, wins int
	for _, g := range games {
		teamScore, opponentScore := g.VisitorScore, g.HomeScore
		if g.HomeTeamID == teamID {
			teamScore, opponentScore = g.HomeScore, g.VisitorScore
		}

		points += teamScore
		rebounds += int(math.Round(float64(teamScore) * reboundsPerPoint))
		assists += int(math.Round(float64(teamScore) * assistsPerPoint))
		if teamScore > opponentScore {
			wins++
		}
	}

	n := float64(len(games))
	return Averages{
		PPG:     roundTo(float64(points)/n, 1),
		RPG:     roundTo(float64(rebounds)/n, 1),
		APG:     roundTo(float64(assists)/n, 1),
		WinRate: roundTo(float64(wins)/n, 3),
	}
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
