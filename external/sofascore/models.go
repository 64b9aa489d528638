package sofascore

// Typed payload shapes for the provider endpoints we consume. Validating at
// the adapter boundary keeps provider payload drift out of the rest of the
// system.

type seasonsEnvelope struct {
	Seasons []seasonItem `json:"seasons"`
}

type seasonItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Year string `json:"year"`
}

type scheduledEventsEnvelope struct {
	Events []eventItem `json:"events"`
}

type eventItem struct {
	ID         int64       `json:"id"`
	Tournament tournament  `json:"tournament"`
	Status     eventStatus `json:"status"`
	HomeTeam   teamItem    `json:"homeTeam"`
	AwayTeam   teamItem    `json:"awayTeam"`
	HomeScore  scoreItem   `json:"homeScore"`
	AwayScore  scoreItem   `json:"awayScore"`
	// Unix seconds.
	StartTimestamp int64 `json:"startTimestamp"`
}

type tournament struct {
	Name             string           `json:"name"`
	UniqueTournament uniqueTournament `json:"uniqueTournament"`
}

type uniqueTournament struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type eventStatus struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type teamItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type scoreItem struct {
	Current *int `json:"current"`
	Display *int `json:"display"`
}

type standingsEnvelope struct {
	Standings []standingsTable `json:"standings"`
}

type standingsTable struct {
	Rows []standingRow `json:"rows"`
}

type standingRow struct {
	Position      int      `json:"position"`
	Team          teamItem `json:"team"`
	Matches       int      `json:"matches"`
	Wins          int      `json:"wins"`
	Draws         int      `json:"draws"`
	Losses        int      `json:"losses"`
	ScoresFor     int      `json:"scoresFor"`
	ScoresAgainst int      `json:"scoresAgainst"`
	Points        int      `json:"points"`
}

type topPlayersEnvelope struct {
	TopPlayers topPlayersGroups `json:"topPlayers"`
}

type topPlayersGroups struct {
	Goals []topPlayerRow `json:"goals"`
}

type topPlayerRow struct {
	Player     playerItem  `json:"player"`
	Team       teamItem    `json:"team"`
	Statistics playerStats `json:"statistics"`
}

type playerItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type playerStats struct {
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	Appearances int `json:"appearances"`
}
