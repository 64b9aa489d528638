package sofascore

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/match"
	"github.com/fulbito/fulbito/internal/platform/cache"
)

func TestResolveSeasonID_HardcodedLeagueSkipsNetwork(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request for hardcoded season: %s", r.URL.Path)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL})

	id, err := client.ResolveSeasonID(context.Background(), league.LigaProfesional)
	if err != nil {
		t.Fatalf("resolve season failed: %v", err)
	}
	if id != 87913 {
		t.Fatalf("unexpected season id: got=%d want=87913", id)
	}
}

func TestResolveSeasonID_AutoDetectUsesNewestAndCaches(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/unique-tournament/703/seasons" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"seasons":[{"id":77777,"name":"Primera Nacional 25","year":"2025"},{"id":66666,"name":"Primera Nacional 24","year":"2024"}]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		Seasons:    cache.NewStore(0),
	})

	for i := 0; i < 2; i++ {
		id, err := client.ResolveSeasonID(context.Background(), league.PrimeraNacional)
		if err != nil {
			t.Fatalf("resolve season attempt %d failed: %v", i, err)
		}
		if id != 77777 {
			t.Fatalf("unexpected season id: got=%d want=77777", id)
		}
	}

	if got := requests.Load(); got != 1 {
		t.Fatalf("expected one seasons lookup, got %d", got)
	}
}

func TestResolveSeasonID_UnknownLeagueIsSoftMiss(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:0"})

	id, err := client.ResolveSeasonID(context.Background(), "Copa Desconocida")
	if err != nil {
		t.Fatalf("expected soft miss, got error: %v", err)
	}
	if id != 0 {
		t.Fatalf("expected zero season id, got %d", id)
	}
}

func TestFetchFixtures_FiltersAndAdaptsEvents(t *testing.T) {
	t.Parallel()

	kickoff := time.Now().UTC().Add(-30 * time.Minute).Truncate(time.Second)
	today := time.Now().UTC().Format("2006-01-02")

	payload := fmt.Sprintf(`{"events":[
		{"id":101,"tournament":{"name":"Liga Profesional","uniqueTournament":{"id":155,"name":"Liga Profesional"}},
		 "status":{"code":6,"description":"1st half","type":"inprogress"},
		 "homeTeam":{"id":3202,"name":"Boca Juniors"},"awayTeam":{"id":3205,"name":"River Plate"},
		 "homeScore":{"current":1,"display":2},"awayScore":{"display":1},
		 "startTimestamp":%d},
		{"id":102,"tournament":{"name":"Serie A","uniqueTournament":{"id":23,"name":"Serie A"}},
		 "status":{"code":0,"description":"Not started","type":"notstarted"},
		 "homeTeam":{"id":1,"name":"Milan"},"awayTeam":{"id":2,"name":"Inter"},
		 "homeScore":{},"awayScore":{},
		 "startTimestamp":%d},
		{"id":103,"tournament":{"name":"Liga Profesional","uniqueTournament":{"id":155,"name":"Liga Profesional"}},
		 "status":{"code":100,"description":"Ended","type":"finished"},
		 "homeTeam":{"id":3206,"name":"Racing"},"awayTeam":{"id":3207,"name":"Independiente"},
		 "homeScore":{"current":2,"display":2},"awayScore":{"current":0,"display":0},
		 "startTimestamp":%d}
	]}`, kickoff.Unix(), kickoff.Unix(), kickoff.Unix())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/sport/football/scheduled-events/"+today {
			_, _ = w.Write([]byte(payload))
			return
		}
		_, _ = w.Write([]byte(`{"events":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL})

	got, err := client.FetchFixtures(context.Background(), league.LigaProfesional)
	if err != nil {
		t.Fatalf("fetch fixtures failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 league fixtures, got %d", len(got))
	}

	live := got[0]
	if live.FixtureID != 101 {
		t.Fatalf("unexpected fixture id: %d", live.FixtureID)
	}
	if live.Status != match.StatusEnJuego {
		t.Fatalf("unexpected live status: %s", live.Status)
	}
	if live.HomeGoals == nil || *live.HomeGoals != 1 {
		t.Fatalf("current score must win over display: %v", live.HomeGoals)
	}
	if live.AwayGoals == nil || *live.AwayGoals != 1 {
		t.Fatalf("display score must back-fill a missing current: %v", live.AwayGoals)
	}
	if !live.KickoffAt.Equal(kickoff) {
		t.Fatalf("unexpected kickoff: got=%s want=%s", live.KickoffAt, kickoff)
	}
	if live.HomeLogo != "https://api.sofascore.app/api/v1/team/3202/image" {
		t.Fatalf("unexpected home logo: %s", live.HomeLogo)
	}

	if got[1].Status != match.StatusFinalizado {
		t.Fatalf("unexpected finished status: %s", got[1].Status)
	}
}

func TestFetchFixtures_ServerErrorPropagates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL})

	if _, err := client.FetchFixtures(context.Background(), league.LigaProfesional); err == nil {
		t.Fatalf("expected error on upstream 500")
	}
}

func TestFetchFixtures_MalformedPayloadFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>rate limited</html>`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL})

	if _, err := client.FetchFixtures(context.Background(), league.LigaProfesional); err == nil {
		t.Fatalf("expected decode error on non-JSON payload")
	}
}

func TestFetchStandings_MapsTable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/unique-tournament/155/season/87913/standings/total" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"standings":[{"rows":[
			{"position":1,"team":{"id":3202,"name":"Boca Juniors"},"matches":10,"wins":7,"draws":2,"losses":1,"scoresFor":18,"scoresAgainst":6,"points":23},
			{"position":2,"team":{"id":3205,"name":"River Plate"},"matches":10,"wins":6,"draws":3,"losses":1,"scoresFor":15,"scoresAgainst":7,"points":21}
		]}]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL})

	got, err := client.FetchStandings(context.Background(), league.LigaProfesional)
	if err != nil {
		t.Fatalf("fetch standings failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}

	top := got[0]
	if top.Position != 1 || top.TeamName != "Boca Juniors" || top.Points != 23 {
		t.Fatalf("unexpected leader row: %+v", top)
	}
	if top.GoalDifference != 12 {
		t.Fatalf("unexpected goal difference: got=%d want=12", top.GoalDifference)
	}
	if top.League != league.LigaProfesional {
		t.Fatalf("unexpected league tag: %s", top.League)
	}
}

func TestFetchTopScorers_RanksByListingOrder(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/unique-tournament/155/season/87913/top-players/overall" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"topPlayers":{"goals":[
			{"player":{"id":9001,"name":"M. Cavani"},"team":{"id":3202,"name":"Boca Juniors"},"statistics":{"goals":11,"assists":3,"appearances":14}},
			{"player":{"id":9002,"name":"M. Borja"},"team":{"id":3205,"name":"River Plate"},"statistics":{"goals":9,"assists":1,"appearances":13}}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), BaseURL: srv.URL})

	got, err := client.FetchTopScorers(context.Background(), league.LigaProfesional)
	if err != nil {
		t.Fatalf("fetch top scorers failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scorers, got %d", len(got))
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Fatalf("ranks must follow listing order: %+v", got)
	}
	if got[0].PlayerName != "M. Cavani" || got[0].Goals != 11 {
		t.Fatalf("unexpected leading scorer: %+v", got[0])
	}
}

func TestNewClient_LeavesCallerHTTPClientUntouched(t *testing.T) {
	t.Parallel()

	shared := &http.Client{}
	client := NewClient(ClientConfig{HTTPClient: shared})

	if shared.Timeout != 0 {
		t.Fatalf("caller's client timeout changed to %v", shared.Timeout)
	}
	if client.httpClient.Timeout != 15*time.Second {
		t.Fatalf("expected defaulted timeout 15s, got %v", client.httpClient.Timeout)
	}
	if client.httpClient == shared {
		t.Fatalf("client must hold its own copy when defaulting the timeout")
	}
}
