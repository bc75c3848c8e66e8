package config

const (
	envBdlBaseURL  = "BALLDONTLIE_BASE_URL"
	envBdlAPIKey   = "BALLDONTLIE_API_KEY"
	envBdlTimezone = "BALLDONTLIE_TIMEZONE"
	envBdlSeason   = "BALLDONTLIE_SEASON"
	envBdlMaxPages = "BALLDONTLIE_MAX_PAGES"

	defaultBdlBaseURL  = "https://api.balldontlie.io/v1"
	defaultBdlTimezone = "America/New_York"
	defaultBdlMaxPages = 5
)

// BalldontlieConfig controls how we talk to the balldontlie API.
type BalldontlieConfig struct {
	BaseURL  string
	APIKey   string
	Timezone string
	// Season is the season start year; 0 derives it from the current date.
	Season int
	// MaxPages bounds the season listing pages walked per live refresh.
	MaxPages int
}

func loadBalldontlie(s source) BalldontlieConfig {
	return BalldontlieConfig{
		BaseURL:  s.stringOrDefault(envBdlBaseURL, defaultBdlBaseURL),
		APIKey:   s.stringOrDefault(envBdlAPIKey, ""),
		Timezone: s.stringOrDefault(envBdlTimezone, defaultBdlTimezone),
		Season:   s.nonNegativeIntOrDefault(envBdlSeason, 0),
		MaxPages: s.intOrDefault(envBdlMaxPages, defaultBdlMaxPages),
	}
}
