package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/panjf2000/ants/v2"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/match"
	"github.com/fulbito/fulbito/internal/platform/logging"
)

// ScoreUpdateResult is the worker run summary returned to the cron caller.
type ScoreUpdateResult struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// ScoreUpdateService settles finished matches: it pulls today's fixtures per
// league from the paid API, matches them against stored rows, and writes
// final scores. Matching prefers the stored fixture id; rows that predate the
// id link fall back to fuzzy team-name pairing and get the id written back.
type ScoreUpdateService struct {
	api         FootballAPIProvider
	matches     match.Repository
	logger      *logging.Logger
	concurrency int
}

func NewScoreUpdateService(api FootballAPIProvider, matches match.Repository, concurrency int, logger *logging.Logger) *ScoreUpdateService {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &ScoreUpdateService{
		api:         api,
		matches:     matches,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Run processes every registry league concurrently. Per-league failures are
// collected, never fatal; the run reports what it managed to settle.
func (s *ScoreUpdateService) Run(ctx context.Context) (ScoreUpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreUpdateService.Run")
	defer span.End()

	today := time.Now().UTC()

	result := ScoreUpdateResult{Errors: []string{}}
	var mu sync.Mutex

	pool, err := ants.NewPool(s.concurrency)
	if err != nil {
		return ScoreUpdateResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, name := range league.Names {
		name := name
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			updated, errs := s.settleLeague(ctx, name, today)

			mu.Lock()
			result.Updated += updated
			result.Errors = append(result.Errors, errs...)
			mu.Unlock()
		}); err != nil {
			workers.Done()
			mu.Lock()
			result.Errors = append(result.Errors, fmt.Sprintf("%s: submit worker: %v", name, err))
			mu.Unlock()
		}
	}
	workers.Wait()

	s.logger.InfoContext(ctx, "score update run finished",
		"updated", result.Updated, "errors", len(result.Errors))
	return result, nil
}

// CorrectScore is the manual override for a settled match. The fixture link
// is left untouched.
func (s *ScoreUpdateService) CorrectScore(ctx context.Context, matchID string, homeGoals, awayGoals int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreUpdateService.CorrectScore")
	defer span.End()

	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if homeGoals < 0 || awayGoals < 0 {
		return fmt.Errorf("%w: goals cannot be negative", ErrInvalidInput)
	}

	stored, found, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match %s: %w", matchID, err)
	}
	if !found {
		return fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	return s.matches.UpdateResult(ctx, stored.ID, match.Result{
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		FixtureID: stored.FixtureID,
	})
}

func (s *ScoreUpdateService) settleLeague(ctx context.Context, leagueName string, today time.Time) (int, []string) {
	var errs []string

	fixtures, err := s.api.GetFixturesByDate(ctx, leagueName, today)
	if err != nil {
		return 0, []string{fmt.Sprintf("%s: fetch fixtures: %v", leagueName, err)}
	}

	updated := 0
	settled := make(map[string]struct{})

	for _, fixture := range fixtures {
		if !match.IsFinishedStatus(fixture.Status) {
			continue
		}
		if fixture.HomeGoals == nil || fixture.AwayGoals == nil {
			continue
		}

		stored, found, err := s.matches.FindForResult(ctx, fixture.FixtureID, fixture.HomeTeam, fixture.AwayTeam, today)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: find %s vs %s: %v", leagueName, fixture.HomeTeam, fixture.AwayTeam, err))
			continue
		}
		if !found {
			stored, found = s.fuzzyFind(ctx, leagueName, fixture, today)
		}
		if !found {
			errs = append(errs, fmt.Sprintf("%s: no stored match for %s vs %s", leagueName, fixture.HomeTeam, fixture.AwayTeam))
			continue
		}

		if err := s.matches.UpdateResult(ctx, stored.ID, match.Result{
			HomeGoals: *fixture.HomeGoals,
			AwayGoals: *fixture.AwayGoals,
			FixtureID: fixture.FixtureID,
		}); err != nil {
			errs = append(errs, fmt.Sprintf("%s: update %s: %v", leagueName, stored.ID, err))
			continue
		}
		settled[stored.ID] = struct{}{}
		updated++
	}

	healed, healErrs := s.settleLinkedStragglers(ctx, leagueName, today, settled)
	return updated + healed, append(errs, healErrs...)
}

// settleLinkedStragglers covers stored matches that carry a fixture id but
// did not appear in the day feed (postponed kickoffs, provider pagination).
// Each one costs a direct fixture lookup.
func (s *ScoreUpdateService) settleLinkedStragglers(ctx context.Context, leagueName string, today time.Time, settled map[string]struct{}) (int, []string) {
	dayMatches, err := s.matches.ListByDay(ctx, today)
	if err != nil {
		return 0, []string{fmt.Sprintf("%s: list day matches: %v", leagueName, err)}
	}

	var errs []string
	updated := 0
	for _, stored := range dayMatches {
		if stored.League != leagueName || stored.FixtureID <= 0 {
			continue
		}
		if _, done := settled[stored.ID]; done {
			continue
		}
		if stored.Status == match.StatusFinalizado && stored.HomeGoals != nil {
			continue
		}

		fixture, found, err := s.api.GetFixtureByID(ctx, stored.FixtureID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: fixture %d lookup: %v", leagueName, stored.FixtureID, err))
			continue
		}
		if !found || !match.IsFinishedStatus(fixture.Status) || fixture.HomeGoals == nil || fixture.AwayGoals == nil {
			continue
		}

		if err := s.matches.UpdateResult(ctx, stored.ID, match.Result{
			HomeGoals: *fixture.HomeGoals,
			AwayGoals: *fixture.AwayGoals,
			FixtureID: stored.FixtureID,
		}); err != nil {
			errs = append(errs, fmt.Sprintf("%s: update %s: %v", leagueName, stored.ID, err))
			continue
		}
		updated++
	}

	return updated, errs
}

// fuzzyFind pairs a provider fixture with a stored row by team names when
// the exact lookup misses. Provider and stored spellings drift (accents,
// "CA"/"Club Atletico" prefixes), so match accent-folded in both directions.
func (s *ScoreUpdateService) fuzzyFind(ctx context.Context, leagueName string, fixture match.Match, today time.Time) (match.Match, bool) {
	dayMatches, err := s.matches.ListByDay(ctx, today)
	if err != nil {
		s.logger.WarnContext(ctx, "fuzzy lookup list failed", "league", leagueName, "error", err)
		return match.Match{}, false
	}

	for _, candidate := range dayMatches {
		if candidate.League != leagueName {
			continue
		}
		if teamNamesMatch(fixture.HomeTeam, candidate.HomeTeam) && teamNamesMatch(fixture.AwayTeam, candidate.AwayTeam) {
			return candidate, true
		}
	}

	return match.Match{}, false
}

func teamNamesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return fuzzy.MatchNormalizedFold(a, b) || fuzzy.MatchNormalizedFold(b, a)
}
