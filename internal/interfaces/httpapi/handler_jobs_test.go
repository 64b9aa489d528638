package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/match"
	"github.com/fulbito/fulbito/internal/infrastructure/repository/memory"
)

func TestRunScoreUpdateJob_RequiresBearerSecret(t *testing.T) {
	handler := newTestHandler(t, &fakeScraper{}, memory.NewMatchRepository())
	router := NewRouter(handler, nil, nil, "cron-secret", "admin-token")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic cron-secret", want: http.StatusUnauthorized},
		{name: "valid secret", header: "Bearer cron-secret", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/internal/jobs/update-scores", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d (body=%s)", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRunScoreUpdateJob_FlatResponseBody(t *testing.T) {
	handler := newTestHandler(t, &fakeScraper{}, memory.NewMatchRepository())
	router := NewRouter(handler, nil, nil, "cron-secret", "admin-token")

	req := httptest.NewRequest(http.MethodGet, "/v1/internal/jobs/update-scores", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got, _ := body["success"].(bool); !got {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if got, _ := body["updated"].(float64); int(got) != 0 {
		t.Fatalf("expected updated=0, got %v", body["updated"])
	}
	if _, ok := body["errors"]; ok {
		t.Fatalf("expected errors to be omitted when empty, got %v", body["errors"])
	}
	if _, ok := body["apiVersion"]; ok {
		t.Fatalf("cron body must not use the response envelope")
	}
}

func TestCorrectMatchScore_Validation(t *testing.T) {
	handler := newTestHandler(t, &fakeScraper{}, memory.NewMatchRepository())
	router := NewRouter(handler, nil, nil, "cron-secret", "admin-token")

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "negative goals", body: `{"home_goals":-1,"away_goals":0}`, want: http.StatusBadRequest},
		{name: "missing away goals", body: `{"home_goals":1}`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"home_goals":1,"away_goals":0,"extra":true}`, want: http.StatusBadRequest},
		{name: "unknown match", body: `{"home_goals":1,"away_goals":0}`, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/internal/matches/m-1/score", strings.NewReader(tt.body))
			req.Header.Set("Authorization", "Bearer admin-token")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected status %d, got %d (body=%s)", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCorrectMatchScore_UpdatesMatch(t *testing.T) {
	repo := memory.NewMatchRepository(match.Match{
		ID:        "m-1",
		League:    league.LigaProfesional,
		HomeTeam:  "Lanus",
		AwayTeam:  "Banfield",
		KickoffAt: time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC),
		Status:    match.StatusEnJuego,
	})
	handler := newTestHandler(t, &fakeScraper{}, repo)
	router := NewRouter(handler, nil, nil, "cron-secret", "admin-token")

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/matches/m-1/score", strings.NewReader(`{"home_goals":3,"away_goals":1}`))
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body=%s)", rec.Code, rec.Body.String())
	}

	stored, found, err := repo.GetByID(req.Context(), "m-1")
	if err != nil || !found {
		t.Fatalf("expected stored match, found=%v err=%v", found, err)
	}
	if stored.Status != match.StatusFinalizado {
		t.Fatalf("expected FINALIZADO, got %s", stored.Status)
	}
	if stored.HomeGoals == nil || *stored.HomeGoals != 3 || stored.AwayGoals == nil || *stored.AwayGoals != 1 {
		t.Fatalf("unexpected goals %v %v", stored.HomeGoals, stored.AwayGoals)
	}
}
