package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fulbito/fulbito/internal/domain/match"
)

// MatchRepository is the in-memory store used in dev mode and tests.
type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
}

func NewMatchRepository(matches ...match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, item := range matches {
		items[item.ID] = item
	}
	return &MatchRepository{items: items}
}

func (r *MatchRepository) Save(_ context.Context, item match.Match) error {
	if item.ID == "" {
		return fmt.Errorf("match id is required")
	}

	r.mu.Lock()
	r.items[item.ID] = item
	r.mu.Unlock()
	return nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func (r *MatchRepository) ListByDay(_ context.Context, day time.Time) ([]match.Match, error) {
	target := day.UTC().Format("2006-01-02")

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if item.KickoffAt.UTC().Format("2006-01-02") == target {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

// FindForResult locates the stored row for a provider fixture: fixture id
// first, then a same-day substring pairing on both team names, matching the
// ilike lookup of the postgres implementation.
func (r *MatchRepository) FindForResult(_ context.Context, fixtureID int64, homeTeam, awayTeam string, day time.Time) (match.Match, bool, error) {
	target := day.UTC().Format("2006-01-02")

	r.mu.RLock()
	defer r.mu.RUnlock()

	if fixtureID > 0 {
		for _, item := range r.items {
			if item.FixtureID == fixtureID {
				return item, true, nil
			}
		}
	}

	// Candidates walk in kickoff-then-id order so ties resolve the same way
	// as the postgres query's ORDER BY.
	candidates := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if item.KickoffAt.UTC().Format("2006-01-02") == target {
			candidates = append(candidates, item)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].KickoffAt.Equal(candidates[j].KickoffAt) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].KickoffAt.Before(candidates[j].KickoffAt)
	})

	for _, item := range candidates {
		if namesOverlap(item.HomeTeam, homeTeam) && namesOverlap(item.AwayTeam, awayTeam) {
			return item, true, nil
		}
	}

	return match.Match{}, false, nil
}

func (r *MatchRepository) UpdateResult(_ context.Context, id string, result match.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("match %s not found", id)
	}

	home := result.HomeGoals
	away := result.AwayGoals
	item.HomeGoals = &home
	item.AwayGoals = &away
	item.Status = match.StatusFinalizado
	if result.FixtureID > 0 {
		item.FixtureID = result.FixtureID
	}
	r.items[id] = item
	return nil
}

func namesOverlap(stored, candidate string) bool {
	stored = strings.ToLower(strings.TrimSpace(stored))
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if stored == "" || candidate == "" {
		return false
	}
	return strings.Contains(stored, candidate) || strings.Contains(candidate, stored)
}
