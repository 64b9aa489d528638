package postgres

import (
	"database/sql"
	"time"

	"github.com/fulbito/fulbito/internal/domain/match"
)

type matchTableModel struct {
	ID        string         `db:"id"`
	League    string         `db:"league"`
	HomeTeam  string         `db:"home_team"`
	AwayTeam  string         `db:"away_team"`
	KickoffAt time.Time      `db:"kickoff_at"`
	Status    string         `db:"status"`
	HomeGoals sql.NullInt64  `db:"home_goals"`
	AwayGoals sql.NullInt64  `db:"away_goals"`
	HomeLogo  sql.NullString `db:"home_logo"`
	AwayLogo  sql.NullString `db:"away_logo"`
	FixtureID sql.NullInt64  `db:"fixture_id"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:        m.ID,
		League:    m.League,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		KickoffAt: m.KickoffAt.UTC(),
		Status:    m.Status,
		HomeGoals: nullInt64ToIntPtr(m.HomeGoals),
		AwayGoals: nullInt64ToIntPtr(m.AwayGoals),
		HomeLogo:  m.HomeLogo.String,
		AwayLogo:  m.AwayLogo.String,
		FixtureID: m.FixtureID.Int64,
	}
}

func matchToTableModel(item match.Match) matchTableModel {
	return matchTableModel{
		ID:        item.ID,
		League:    item.League,
		HomeTeam:  item.HomeTeam,
		AwayTeam:  item.AwayTeam,
		KickoffAt: item.KickoffAt.UTC(),
		Status:    item.Status,
		HomeGoals: intPtrToNullInt64(item.HomeGoals),
		AwayGoals: intPtrToNullInt64(item.AwayGoals),
		HomeLogo:  stringToNullString(item.HomeLogo),
		AwayLogo:  stringToNullString(item.AwayLogo),
		FixtureID: int64ToNullInt64(item.FixtureID),
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func int64ToNullInt64(v int64) sql.NullInt64 {
	if v <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func stringToNullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
