package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/scorer"
	"github.com/fulbito/fulbito/internal/domain/standing"
	"github.com/fulbito/fulbito/internal/platform/cache"
)

func TestGetStandings_ScraperFirst(t *testing.T) {
	t.Parallel()

	scraper := &stubScraper{standings: map[string][]standing.Standing{
		league.LaLiga: {{Position: 1, TeamName: "Barcelona"}},
	}}
	api := &stubAPI{standings: map[string][]standing.Standing{
		league.LaLiga: {{Position: 1, TeamName: "Real Madrid"}},
	}}

	svc := NewStandingsService(scraper, api, nil, nil)

	feed, err := svc.GetStandings(context.Background(), league.LaLiga)
	if err != nil {
		t.Fatalf("get standings failed: %v", err)
	}
	if feed.Source != SourceScraper {
		t.Fatalf("expected scraper source, got %s", feed.Source)
	}
	if len(feed.Standings) != 1 || feed.Standings[0].TeamName != "Barcelona" {
		t.Fatalf("unexpected standings: %+v", feed.Standings)
	}
}

func TestGetStandings_FallsBackToAPI(t *testing.T) {
	t.Parallel()

	scraper := &stubScraper{standingsErr: errors.New("blocked")}
	api := &stubAPI{standings: map[string][]standing.Standing{
		league.LaLiga: {{Position: 1, TeamName: "Real Madrid"}},
	}}

	svc := NewStandingsService(scraper, api, nil, nil)

	feed, err := svc.GetStandings(context.Background(), league.LaLiga)
	if err != nil {
		t.Fatalf("get standings failed: %v", err)
	}
	if feed.Source != SourceAPI {
		t.Fatalf("expected api source, got %s", feed.Source)
	}
}

func TestGetStandings_UnknownLeagueServesEmptyFeed(t *testing.T) {
	t.Parallel()

	svc := NewStandingsService(&stubScraper{}, &stubAPI{}, nil, nil)

	feed, err := svc.GetStandings(context.Background(), "Eredivisie")
	if err != nil {
		t.Fatalf("unknown league must not error, got %v", err)
	}
	if feed.League != "Eredivisie" || feed.Source != SourceNone || len(feed.Standings) != 0 {
		t.Fatalf("expected empty none feed, got %+v", feed)
	}
}

func TestGetTopScorers_UnknownLeagueServesEmptyFeed(t *testing.T) {
	t.Parallel()

	svc := NewTopScorerService(&stubScraper{}, &stubAPI{}, nil, nil)

	feed, err := svc.GetTopScorers(context.Background(), "Eredivisie")
	if err != nil {
		t.Fatalf("unknown league must not error, got %v", err)
	}
	if feed.Source != SourceNone || len(feed.Scorers) != 0 {
		t.Fatalf("expected empty none feed, got %+v", feed)
	}
}

func TestGetStandings_CachedFeedSkipsProviders(t *testing.T) {
	t.Parallel()

	scraper := &stubScraper{standings: map[string][]standing.Standing{
		league.LaLiga: {{Position: 1, TeamName: "Barcelona"}},
	}}
	store := cache.NewStore(time.Minute)

	svc := NewStandingsService(scraper, &stubAPI{}, store, nil)

	if _, err := svc.GetStandings(context.Background(), league.LaLiga); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	// Drop the scraper data; a cache hit must still serve the old feed.
	scraper.standings = nil
	feed, err := svc.GetStandings(context.Background(), league.LaLiga)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if feed.Source != SourceScraper || len(feed.Standings) != 1 {
		t.Fatalf("expected cached scraper feed, got %+v", feed)
	}
}

func TestGetTopScorers_FallbackChain(t *testing.T) {
	t.Parallel()

	scraper := &stubScraper{}
	api := &stubAPI{scorers: map[string][]scorer.Scorer{
		league.PremierLeague: {{Rank: 1, PlayerName: "E. Haaland", Goals: 14}},
	}}

	svc := NewTopScorerService(scraper, api, nil, nil)

	feed, err := svc.GetTopScorers(context.Background(), league.PremierLeague)
	if err != nil {
		t.Fatalf("get top scorers failed: %v", err)
	}
	if feed.Source != SourceAPI {
		t.Fatalf("expected api source, got %s", feed.Source)
	}
	if len(feed.Scorers) != 1 || feed.Scorers[0].PlayerName != "E. Haaland" {
		t.Fatalf("unexpected scorers: %+v", feed.Scorers)
	}
}

func TestGetTopScorers_BothEmpty(t *testing.T) {
	t.Parallel()

	svc := NewTopScorerService(&stubScraper{}, &stubAPI{}, nil, nil)

	feed, err := svc.GetTopScorers(context.Background(), league.PrimeraNacional)
	if err != nil {
		t.Fatalf("get top scorers failed: %v", err)
	}
	if feed.Source != SourceNone || len(feed.Scorers) != 0 {
		t.Fatalf("expected empty none feed, got %+v", feed)
	}
}
