package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fulbito/fulbito/internal/domain/match"
	qb "github.com/fulbito/fulbito/internal/platform/querybuilder"
)

const matchColumns = "id, league, home_team, away_team, kickoff_at, status, home_goals, away_goals, home_logo, away_logo, fixture_id"

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Save(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertModel("matches", matchToTableModel(item),
		`ON CONFLICT (id) DO UPDATE SET
			league = EXCLUDED.league,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			kickoff_at = EXCLUDED.kickoff_at,
			status = EXCLUDED.status,
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			home_logo = EXCLUDED.home_logo,
			away_logo = EXCLUDED.away_logo,
			fixture_id = EXCLUDED.fixture_id,
			updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert match query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListByDay(ctx context.Context, day time.Time) ([]match.Match, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 1)

	query, args, err := qb.Select(matchColumns).From("matches").
		Where(qb.Expr("kickoff_at >= ? AND kickoff_at < ?", start, end)).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by day query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by day: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// FindForResult resolves a provider fixture to its stored row. The fixture id
// link wins when present; otherwise it falls back to a same-day ilike pairing
// on the team names, which tolerates provider spelling drift.
func (r *MatchRepository) FindForResult(ctx context.Context, fixtureID int64, homeTeam, awayTeam string, day time.Time) (match.Match, bool, error) {
	if fixtureID > 0 {
		found, ok, err := r.getByFixtureID(ctx, fixtureID)
		if err != nil {
			return match.Match{}, false, err
		}
		if ok {
			return found, true, nil
		}
	}

	if homeTeam == "" || awayTeam == "" {
		return match.Match{}, false, nil
	}

	query, args, err := findByTeamsQuery(homeTeam, awayTeam, day)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build find match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("find match for result: %w", err)
	}

	return row.toDomain(), true, nil
}

// findByTeamsQuery pairs BOTH team names within the fixture's calendar day.
// A single matching side is not enough: two same-day fixtures can share one
// team, and settling the wrong row would also poison its fixture_id link.
func findByTeamsQuery(homeTeam, awayTeam string, day time.Time) (string, []any, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 1)

	return qb.Select(matchColumns).From("matches").
		Where(
			qb.Expr("kickoff_at >= ? AND kickoff_at < ?", start, end),
			qb.ILike("home_team", "%"+homeTeam+"%"),
			qb.ILike("away_team", "%"+awayTeam+"%"),
		).
		OrderBy("kickoff_at", "id").
		Limit(1).
		ToSQL()
}

func (r *MatchRepository) UpdateResult(ctx context.Context, id string, result match.Result) error {
	builder := qb.Update("matches").
		Set("home_goals", result.HomeGoals).
		Set("away_goals", result.AwayGoals).
		Set("status", match.StatusFinalizado).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id))
	if result.FixtureID > 0 {
		builder = builder.Set("fixture_id", result.FixtureID)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build update match result query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update match result rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("match %s not found", id)
	}
	return nil
}

func (r *MatchRepository) getByFixtureID(ctx context.Context, fixtureID int64) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(qb.Eq("fixture_id", fixtureID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by fixture query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match by fixture: %w", err)
	}

	return row.toDomain(), true, nil
}
