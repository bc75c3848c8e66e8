package teams

// Team is the team metadata the stat lookup needs.
type Team struct {
	ID         int    `json:"id"`
	FullName   string `json:"fullName"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

// Stats is a team record with its derived per-game averages flattened alongside.
type Stats struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
	Averages
}

// NewStats combines team metadata with computed averages.
func NewStats(team Team, avg Averages) Stats {
	return Stats{
		ID:         team.ID,
		Name:       team.FullName,
		Conference: team.Conference,
		Division:   team.Division,
		Averages:   avg,
	}
}
