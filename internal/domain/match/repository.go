package match

import (
	"context"
	"time"
)

// Result carries the final score the worker writes back.
type Result struct {
	HomeGoals int
	AwayGoals int
	FixtureID int64
}

// Repository describes persisted-match operations needed by the services.
// The score worker only updates; it never inserts.
type Repository interface {
	GetByID(ctx context.Context, id string) (Match, bool, error)
	ListByDay(ctx context.Context, day time.Time) ([]Match, error)
	// FindForResult locates a match by provider fixture id, or by a same-day
	// case-insensitive substring match on both team names. First row wins;
	// ambiguity is not resolved further.
	FindForResult(ctx context.Context, fixtureID int64, homeTeam, awayTeam string, day time.Time) (Match, bool, error)
	// UpdateResult overwrites the score, marks the match FINALIZADO and
	// backfills the provider fixture id when it was missing.
	UpdateResult(ctx context.Context, id string, result Result) error
}
