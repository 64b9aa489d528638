package scorer

// Scorer is one top-scorer table row.
type Scorer struct {
	League     string
	Rank       int
	PlayerName string
	PlayerFoto string
	TeamName   string
	TeamLogo   string
	Goals      int
	Assists    int
	Matches    int
}
