package apifootball

import "encoding/json"

// Every endpoint shares the same envelope: results under "response", provider
// complaints under "errors". The provider reports errors with HTTP 200, so
// the errors field has to be inspected on every call. It is an empty array
// when clean and an object when populated, hence the RawMessage.

type fixturesEnvelope struct {
	Errors   json.RawMessage `json:"errors"`
	Response []fixtureItem   `json:"response"`
}

type fixtureItem struct {
	Fixture fixtureCore  `json:"fixture"`
	League  leagueInfo   `json:"league"`
	Teams   fixtureTeams `json:"teams"`
	Goals   fixtureGoals `json:"goals"`
}

type fixtureCore struct {
	ID        int64         `json:"id"`
	Date      string        `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Status    fixtureStatus `json:"status"`
}

type fixtureStatus struct {
	Long    string `json:"long"`
	Short   string `json:"short"`
	Elapsed *int   `json:"elapsed"`
}

type leagueInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
	Round  string `json:"round"`
}

type fixtureTeams struct {
	Home teamInfo `json:"home"`
	Away teamInfo `json:"away"`
}

type teamInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type fixtureGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type roundsEnvelope struct {
	Errors   json.RawMessage `json:"errors"`
	Response []string        `json:"response"`
}

type standingsEnvelope struct {
	Errors   json.RawMessage `json:"errors"`
	Response []standingsItem `json:"response"`
}

type standingsItem struct {
	League standingsLeague `json:"league"`
}

type standingsLeague struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Standings [][]standingRow `json:"standings"`
}

type standingRow struct {
	Rank      int           `json:"rank"`
	Team      teamInfo      `json:"team"`
	Points    int           `json:"points"`
	GoalsDiff int           `json:"goalsDiff"`
	Form      string        `json:"form"`
	All       standingSplit `json:"all"`
}

type standingSplit struct {
	Played int           `json:"played"`
	Win    int           `json:"win"`
	Draw   int           `json:"draw"`
	Lose   int           `json:"lose"`
	Goals  standingGoals `json:"goals"`
}

type standingGoals struct {
	For     int `json:"for"`
	Against int `json:"against"`
}

type scorersEnvelope struct {
	Errors   json.RawMessage `json:"errors"`
	Response []scorerItem    `json:"response"`
}

type scorerItem struct {
	Player     playerInfo    `json:"player"`
	Statistics []scorerStats `json:"statistics"`
}

type playerInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type scorerStats struct {
	Team  teamInfo     `json:"team"`
	Games scorerGames  `json:"games"`
	Goals scorerTotals `json:"goals"`
}

type scorerGames struct {
	// The provider spells it this way.
	Appearences int `json:"appearences"`
}

type scorerTotals struct {
	Total   *int `json:"total"`
	Assists *int `json:"assists"`
}
