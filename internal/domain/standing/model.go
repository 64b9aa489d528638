package standing

// Standing is one league-table row.
type Standing struct {
	League         string
	Position       int
	TeamName       string
	TeamLogo       string
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Form           string
}
