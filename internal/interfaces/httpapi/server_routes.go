package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/debug/scraper", handler.ProbeScraper)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/fixtures", handler.ListAllFixtures)
	mux.HandleFunc("GET /v1/leagues/{league}/fixtures", handler.ListFixturesByLeague)
	mux.HandleFunc("GET /v1/leagues/{league}/standings", handler.ListLeagueStandings)
	mux.HandleFunc("GET /v1/leagues/{league}/topscorers", handler.ListTopScorersByLeague)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, cronSecret, adminToken string) {
	mux.Handle("GET /v1/internal/jobs/update-scores", RequireBearerSecret(cronSecret, http.HandlerFunc(handler.RunScoreUpdateJob)))
	mux.Handle("POST /v1/internal/matches/{matchID}/score", RequireBearerSecret(adminToken, http.HandlerFunc(handler.CorrectMatchScore)))
}
