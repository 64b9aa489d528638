package usecase

import (
	"context"
	"time"

	"github.com/fulbito/fulbito/internal/domain/match"
	"github.com/fulbito/fulbito/internal/domain/scorer"
	"github.com/fulbito/fulbito/internal/domain/standing"
)

// Feed sources, in preference order.
const (
	SourceScraper = "scraper"
	SourceAPI     = "api"
	SourceNone    = "none"
)

// ScraperProvider is the free near-live source. Implementations fail soft:
// an unresolvable league yields empty data without error.
type ScraperProvider interface {
	FetchFixtures(ctx context.Context, leagueName string) ([]match.Match, error)
	FetchStandings(ctx context.Context, leagueName string) ([]standing.Standing, error)
	FetchTopScorers(ctx context.Context, leagueName string) ([]scorer.Scorer, error)
}

// FootballAPIProvider is the paid fallback source. Implementations return
// empty data without error when no API key is configured.
type FootballAPIProvider interface {
	GetFixturesByDateRange(ctx context.Context, leagueName string) ([]match.Match, error)
	GetFixturesByDate(ctx context.Context, leagueName string, day time.Time) ([]match.Match, error)
	GetFixtureByID(ctx context.Context, fixtureID int64) (match.Match, bool, error)
	GetRoundsList(ctx context.Context, leagueName string) ([]string, error)
	GetFixturesByRound(ctx context.Context, leagueName, round string) ([]match.Match, error)
	GetStandings(ctx context.Context, leagueName string) ([]standing.Standing, error)
	GetTopScorers(ctx context.Context, leagueName string) ([]scorer.Scorer, error)
}

// FixtureFeed is a league's reconciled fixture list tagged with the source
// that produced it.
type FixtureFeed struct {
	League   string        `json:"league"`
	Source   string        `json:"source"`
	Fixtures []match.Match `json:"fixtures"`
}

// StandingsFeed is a league table tagged with its source.
type StandingsFeed struct {
	League    string              `json:"league"`
	Source    string              `json:"source"`
	Standings []standing.Standing `json:"standings"`
}

// ScorersFeed is a league's goal leaders tagged with their source.
type ScorersFeed struct {
	League  string          `json:"league"`
	Source  string          `json:"source"`
	Scorers []scorer.Scorer `json:"scorers"`
}
