package balldontlie

import (
	"net/url"
	"strconv"
)

// SeasonGames lists the first page of a season's games; callers filter client-side.
func SeasonGames(season int) string {
	return SeasonGamesPage(season, 0)
}

// SeasonGamesPage lists the season page starting at cursor, the previous page's next_cursor.
// A cursor of zero is the first page.
func SeasonGamesPage(season, cursor int) string {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(defaultPerPage))
	q.Set("seasons[]", strconv.Itoa(season))
	if cursor > 0 {
		q.Set("cursor", strconv.Itoa(cursor))
	}
	return "games?" + q.Encode()
}

// SearchPlayers finds players by name fragment.
func SearchPlayers(query string) string {
	q := url.Values{}
	q.Set("search", query)
	return "players?" + q.Encode()
}

// SeasonAverages returns the current season averages of one player.
func SeasonAverages(playerID int) string {
	q := url.Values{}
	q.Set("player_ids[]", strconv.Itoa(playerID))
	return "season_averages?" + q.Encode()
}

// Team returns one team's metadata.
func Team(teamID int) string {
	return "teams/" + strconv.Itoa(teamID)
}

// TeamGames lists games played by a team.
func TeamGames(teamID int) string {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(defaultPerPage))
	q.Set("team_ids[]", strconv.Itoa(teamID))
	return "games?" + q.Encode()
}

// GamesFrom lists games on or after date (YYYY-MM-DD).
func GamesFrom(date string) string {
	q := url.Values{}
	q.Set("start_date", date)
	return "games?" + q.Encode()
}
