package games

import "time"

// GameStatus is the normalized lifecycle state of a game.
type GameStatus string

const (
	StatusScheduled  GameStatus = "SCHEDULED"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusFinal      GameStatus = "FINAL"
	StatusPostponed  GameStatus = "POSTPONED"
	StatusCanceled   GameStatus = "CANCELED"
)

// ArenaTBD is the only venue the upstream can give us.
const ArenaTBD = "TBD"

// Game is a live-score record for the ticker. Status is the upstream display string
// ("Final", "3rd Qtr", a tip-off time); State is its normalized form.
type Game struct {
	ID        int        `json:"id"`
	HomeTeam  string     `json:"homeTeam"`
	HomeScore int        `json:"homeScore"`
	AwayTeam  string     `json:"awayTeam"`
	AwayScore int        `json:"awayScore"`
	Status    string     `json:"status"`
	Period    int        `json:"period"`
	State     GameStatus `json:"state"`
}

// Scheduled is a lightweight schedule entry.
type Scheduled struct {
	ID       int       `json:"id"`
	HomeTeam string    `json:"homeTeam"`
	AwayTeam string    `json:"awayTeam"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	Arena    string    `json:"arena"`
}
