package usecase

import (
	"context"
	"fmt"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/scorer"
	"github.com/fulbito/fulbito/internal/platform/cache"
	"github.com/fulbito/fulbito/internal/platform/logging"
)

// TopScorerService serves goal leaders, scraper first with API fallback,
// cached like standings.
type TopScorerService struct {
	scraper ScraperProvider
	api     FootballAPIProvider
	cache   *cache.Store
	logger  *logging.Logger
}

func NewTopScorerService(scraper ScraperProvider, api FootballAPIProvider, store *cache.Store, logger *logging.Logger) *TopScorerService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TopScorerService{
		scraper: scraper,
		api:     api,
		cache:   store,
		logger:  logger,
	}
}

func (s *TopScorerService) GetTopScorers(ctx context.Context, leagueName string) (ScorersFeed, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TopScorerService.GetTopScorers")
	defer span.End()

	if !league.Supported(leagueName) {
		s.logger.WarnContext(ctx, "unsupported league, serving empty scorers", "league", leagueName)
		return ScorersFeed{League: leagueName, Source: SourceNone, Scorers: []scorer.Scorer{}}, nil
	}

	if s.cache == nil {
		return s.load(ctx, leagueName), nil
	}

	value, err := s.cache.GetOrLoad(ctx, "topscorers:"+leagueName, func(ctx context.Context) (any, error) {
		return s.load(ctx, leagueName), nil
	})
	if err != nil {
		return ScorersFeed{}, err
	}

	feed, ok := value.(ScorersFeed)
	if !ok {
		return ScorersFeed{}, fmt.Errorf("unexpected cached scorers type %T", value)
	}
	return feed, nil
}

func (s *TopScorerService) load(ctx context.Context, leagueName string) ScorersFeed {
	feed := ScorersFeed{League: leagueName, Source: SourceNone, Scorers: []scorer.Scorer{}}

	rows, err := s.scraper.FetchTopScorers(ctx, leagueName)
	if err != nil {
		s.logger.WarnContext(ctx, "scraper top scorers failed, falling back", "league", leagueName, "error", err)
	}
	if len(rows) > 0 {
		feed.Source = SourceScraper
		feed.Scorers = rows
		return feed
	}

	rows, err = s.api.GetTopScorers(ctx, leagueName)
	if err != nil {
		s.logger.WarnContext(ctx, "api top scorers failed", "league", leagueName, "error", err)
		return feed
	}
	if len(rows) > 0 {
		feed.Source = SourceAPI
		feed.Scorers = rows
	}

	return feed
}
