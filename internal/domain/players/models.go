package players

// Stats is a player's season-average line as shown in the stat lookup.
// Numeric fields are zero when the upstream has no value.
type Stats struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Team         string  `json:"team"`
	Position     string  `json:"position"`
	PPG          float64 `json:"ppg"`
	RPG          float64 `json:"rpg"`
	APG          float64 `json:"apg"`
	FGPercentage float64 `json:"fgPercentage"`
}
