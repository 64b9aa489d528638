package usecase

import (
	"context"
	"fmt"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/standing"
	"github.com/fulbito/fulbito/internal/platform/cache"
	"github.com/fulbito/fulbito/internal/platform/logging"
)

// StandingsService serves league tables with the same scraper-first,
// API-fallback chain as fixtures. Tables change slowly, so results go
// through the shared TTL cache.
type StandingsService struct {
	scraper ScraperProvider
	api     FootballAPIProvider
	cache   *cache.Store
	logger  *logging.Logger
}

func NewStandingsService(scraper ScraperProvider, api FootballAPIProvider, store *cache.Store, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		scraper: scraper,
		api:     api,
		cache:   store,
		logger:  logger,
	}
}

func (s *StandingsService) GetStandings(ctx context.Context, leagueName string) (StandingsFeed, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GetStandings")
	defer span.End()

	if !league.Supported(leagueName) {
		s.logger.WarnContext(ctx, "unsupported league, serving empty standings", "league", leagueName)
		return StandingsFeed{League: leagueName, Source: SourceNone, Standings: []standing.Standing{}}, nil
	}

	if s.cache == nil {
		return s.load(ctx, leagueName), nil
	}

	value, err := s.cache.GetOrLoad(ctx, "standings:"+leagueName, func(ctx context.Context) (any, error) {
		return s.load(ctx, leagueName), nil
	})
	if err != nil {
		return StandingsFeed{}, err
	}

	feed, ok := value.(StandingsFeed)
	if !ok {
		return StandingsFeed{}, fmt.Errorf("unexpected cached standings type %T", value)
	}
	return feed, nil
}

func (s *StandingsService) load(ctx context.Context, leagueName string) StandingsFeed {
	feed := StandingsFeed{League: leagueName, Source: SourceNone, Standings: []standing.Standing{}}

	rows, err := s.scraper.FetchStandings(ctx, leagueName)
	if err != nil {
		s.logger.WarnContext(ctx, "scraper standings failed, falling back", "league", leagueName, "error", err)
	}
	if len(rows) > 0 {
		feed.Source = SourceScraper
		feed.Standings = rows
		return feed
	}

	rows, err = s.api.GetStandings(ctx, leagueName)
	if err != nil {
		s.logger.WarnContext(ctx, "api standings failed", "league", leagueName, "error", err)
		return feed
	}
	if len(rows) > 0 {
		feed.Source = SourceAPI
		feed.Standings = rows
	}

	return feed
}
