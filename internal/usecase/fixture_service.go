package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/match"
	"github.com/fulbito/fulbito/internal/platform/logging"
)

// roundBackfillCount is how many trailing rounds the fallback path refetches
// to cover fixtures that drifted out of the date window.
const roundBackfillCount = 3

// FixtureService reconciles a league's fixtures from two sources: the free
// scraper first, the paid API as fallback. Provider failures never surface to
// callers; they degrade the feed to the next source, down to an empty feed.
type FixtureService struct {
	scraper ScraperProvider
	api     FootballAPIProvider
	logger  *logging.Logger
}

func NewFixtureService(scraper ScraperProvider, api FootballAPIProvider, logger *logging.Logger) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureService{
		scraper: scraper,
		api:     api,
		logger:  logger,
	}
}

// GetFixturesByLeague returns one league's reconciled feed. Unknown leagues
// yield an empty feed, never an error; everything else degrades softly.
func (s *FixtureService) GetFixturesByLeague(ctx context.Context, leagueName string) (FixtureFeed, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetFixturesByLeague")
	defer span.End()

	feed := FixtureFeed{League: leagueName, Source: SourceNone, Fixtures: []match.Match{}}

	if !league.Supported(leagueName) {
		s.logger.WarnContext(ctx, "unsupported league, serving empty feed", "league", leagueName)
		return feed, nil
	}

	fixtures, err := s.scraper.FetchFixtures(ctx, leagueName)
	if err != nil {
		s.logger.WarnContext(ctx, "scraper fixtures failed, falling back", "league", leagueName, "error", err)
	}
	if len(fixtures) > 0 {
		sort.SliceStable(fixtures, func(i, j int) bool {
			return fixtures[i].KickoffAt.Before(fixtures[j].KickoffAt)
		})
		feed.Source = SourceScraper
		feed.Fixtures = fixtures
		return feed, nil
	}

	fixtures = s.fetchFromAPI(ctx, leagueName)
	if len(fixtures) > 0 {
		feed.Source = SourceAPI
		feed.Fixtures = fixtures
	}

	return feed, nil
}

// GetAllFixtures fans out over every registry league and merges the feeds
// into one kickoff-ascending list. A failed league contributes nothing.
func (s *FixtureService) GetAllFixtures(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetAllFixtures")
	defer span.End()

	workers := pool.NewWithResults[FixtureFeed]().WithContext(ctx)
	for _, name := range league.Names {
		name := name
		workers.Go(func(ctx context.Context) (FixtureFeed, error) {
			feed, err := s.GetFixturesByLeague(ctx, name)
			if err != nil {
				s.logger.WarnContext(ctx, "league feed failed in aggregate", "league", name, "error", err)
				return FixtureFeed{League: name, Source: SourceNone}, nil
			}
			return feed, nil
		})
	}

	feeds, err := workers.Wait()
	if err != nil {
		return nil, fmt.Errorf("aggregate fixtures: %w", err)
	}

	merged := make([]match.Match, 0, len(feeds)*8)
	for _, feed := range feeds {
		merged = append(merged, feed.Fixtures...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].KickoffAt.Before(merged[j].KickoffAt)
	})

	return merged, nil
}

// fetchFromAPI serves the wide date window when it has anything at all; the
// trailing-rounds backfill runs only for an empty window, so a populated
// window costs exactly one provider call. Either path ends deduplicated by
// fixture id and ordered kickoff-descending so the most recent activity
// leads the fallback feed.
func (s *FixtureService) fetchFromAPI(ctx context.Context, leagueName string) []match.Match {
	fixtures, err := s.api.GetFixturesByDateRange(ctx, leagueName)
	if err != nil {
		s.logger.WarnContext(ctx, "api fixtures window failed", "league", leagueName, "error", err)
		fixtures = nil
	}

	if len(fixtures) == 0 {
		fixtures = s.backfillRounds(ctx, leagueName)
	}
	if len(fixtures) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(fixtures))
	deduped := fixtures[:0]
	for _, fixture := range fixtures {
		if fixture.FixtureID > 0 {
			if _, dup := seen[fixture.FixtureID]; dup {
				continue
			}
			seen[fixture.FixtureID] = struct{}{}
		}
		deduped = append(deduped, fixture)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].KickoffAt.After(deduped[j].KickoffAt)
	})

	return deduped
}

func (s *FixtureService) backfillRounds(ctx context.Context, leagueName string) []match.Match {
	rounds, err := s.api.GetRoundsList(ctx, leagueName)
	if err != nil {
		s.logger.WarnContext(ctx, "api rounds list failed", "league", leagueName, "error", err)
		return nil
	}
	if len(rounds) == 0 {
		return nil
	}

	start := len(rounds) - roundBackfillCount
	if start < 0 {
		start = 0
	}
	tail := rounds[start:]

	workers := pool.NewWithResults[[]match.Match]().WithContext(ctx)
	for _, round := range tail {
		round := round
		workers.Go(func(ctx context.Context) ([]match.Match, error) {
			fixtures, err := s.api.GetFixturesByRound(ctx, leagueName, round)
			if err != nil {
				// One bad round must not sink the whole backfill.
				s.logger.WarnContext(ctx, "api round fetch failed", "league", leagueName, "round", round, "error", err)
				return nil, nil
			}
			return fixtures, nil
		})
	}

	chunks, err := workers.Wait()
	if err != nil {
		s.logger.WarnContext(ctx, "round backfill aborted", "league", leagueName, "error", err)
		return nil
	}

	var out []match.Match
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	return out
}
