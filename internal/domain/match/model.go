package match

import (
	"strings"
	"time"
)

// Lifecycle states of a match as the app presents them.
const (
	StatusPrevia     = "PREVIA"
	StatusEnJuego    = "EN_JUEGO"
	StatusFinalizado = "FINALIZADO"
)

// Regulation plus stoppage; a match older than this window is considered over
// when no provider status is available.
const playingWindow = 120 * time.Minute

// Match is one fixture as persisted and served to clients. FixtureID is the
// provider cross-reference; zero means the record was created before the
// provider id was known and the score worker may backfill it.
type Match struct {
	ID        string
	League    string
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
	Status    string
	HomeGoals *int
	AwayGoals *int
	HomeLogo  string
	AwayLogo  string
	FixtureID int64
}

// NormalizeStatus uppercases a raw status and defaults empty to PREVIA.
func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusPrevia
	}
	return status
}

// DeriveStatus computes the lifecycle state from the kickoff time alone, for
// matches authored locally without a provider status. The three branches
// partition the timeline: before kickoff, inside the playing window, after.
func DeriveStatus(kickoffAt, now time.Time) string {
	if now.Before(kickoffAt) {
		return StatusPrevia
	}
	if now.Before(kickoffAt.Add(playingWindow)) {
		return StatusEnJuego
	}
	return StatusFinalizado
}

// IsFinishedStatus reports whether a provider short code means full time.
func IsFinishedStatus(code string) bool {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "FT", "AET", "PEN", StatusFinalizado:
		return true
	default:
		return false
	}
}
