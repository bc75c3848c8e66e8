package balldontlie

type gamesResponse struct {
	Data []gameResponse `json:"data"`
	Meta metaResponse   `json:"meta"`
}

type gameResponse struct {
	ID               int          `json:"id"`
	Date             string       `json:"date"`
	Status           string       `json:"status"`
	Time             string       `json:"time"`
	Period           int          `json:"period"`
	Postseason       bool         `json:"postseason"`
	HomeTeam         teamResponse `json:"home_team"`
	VisitorTeam      teamResponse `json:"visitor_team"`
	HomeTeamScore    int          `json:"home_team_score"`
	VisitorTeamScore int          `json:"visitor_team_score"`
	Season           int          `json:"season"`
}

type teamResponse struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

// teamEnvelope accepts both {"data": {...}} and a bare team object.
type teamEnvelope struct {
	Data *teamResponse `json:"data"`
	teamResponse
}

type playersResponse struct {
	Data []playerResponse `json:"data"`
}

type playerResponse struct {
	ID        int           `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Position  string        `json:"position"`
	Team      *teamResponse `json:"team"`
}

type seasonAveragesResponse struct {
	Data []seasonAverageResponse `json:"data"`
}

// Missing or null numbers decode as zero.
type seasonAverageResponse struct {
	PlayerID int     `json:"player_id"`
	Season   int     `json:"season"`
	Games    int     `json:"games_played"`
	Pts      float64 `json:"pts"`
	Reb      float64 `json:"reb"`
	Ast      float64 `json:"ast"`
	FgPct    float64 `json:"fg_pct"`
}

// Listings paginate by cursor; next_cursor is absent on the last page.
type metaResponse struct {
	NextCursor int `json:"next_cursor"`
}
