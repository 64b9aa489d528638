package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/match"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items := make([]leaguePublicDTO, 0, len(league.Names))
	for _, name := range league.Names {
		id, _ := league.ResolveID(name)
		items = append(items, leaguePublicDTO{
			Name:     name,
			LeagueID: id,
			Season:   league.ResolveSeason(name),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListAllFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAllFixtures")
	defer span.End()

	fixtures, err := h.fixtureService.GetAllFixtures(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list all fixtures failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(ctx, fixtures))
}

func (h *Handler) ListFixturesByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesByLeague")
	defer span.End()

	leagueName := r.PathValue("league")
	feed, err := h.fixtureService.GetFixturesByLeague(ctx, leagueName)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "league", leagueName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureFeedDTO{
		League:   feed.League,
		Source:   feed.Source,
		Fixtures: matchesToDTO(ctx, feed.Fixtures),
	})
}

func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	leagueName := r.PathValue("league")
	feed, err := h.standingsService.GetStandings(ctx, leagueName)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "league", leagueName, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(feed.Standings))
	for _, row := range feed.Standings {
		items = append(items, standingDTO{
			Position:       row.Position,
			TeamName:       row.TeamName,
			TeamLogo:       row.TeamLogo,
			Played:         row.Played,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
			Form:           row.Form,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, standingsFeedDTO{
		League:    feed.League,
		Source:    feed.Source,
		Standings: items,
	})
}

func (h *Handler) ListTopScorersByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopScorersByLeague")
	defer span.End()

	leagueName := r.PathValue("league")
	feed, err := h.topScorerService.GetTopScorers(ctx, leagueName)
	if err != nil {
		h.logger.WarnContext(ctx, "list top scorers failed", "league", leagueName, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scorerDTO, 0, len(feed.Scorers))
	for _, row := range feed.Scorers {
		items = append(items, scorerDTO{
			Rank:       row.Rank,
			PlayerName: row.PlayerName,
			PlayerFoto: row.PlayerFoto,
			TeamName:   row.TeamName,
			TeamLogo:   row.TeamLogo,
			Goals:      row.Goals,
			Assists:    row.Assists,
			Matches:    row.Matches,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, scorersFeedDTO{
		League:  feed.League,
		Source:  feed.Source,
		Scorers: items,
	})
}

type leaguePublicDTO struct {
	Name     string `json:"name"`
	LeagueID int    `json:"leagueId"`
	Season   int    `json:"season"`
}

type fixtureFeedDTO struct {
	League   string     `json:"league"`
	Source   string     `json:"source"`
	Fixtures []matchDTO `json:"fixtures"`
}

type matchDTO struct {
	ID        string `json:"id"`
	League    string `json:"league"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	KickoffAt string `json:"kickoffAt"`
	Status    string `json:"status"`
	HomeGoals *int   `json:"homeGoals"`
	AwayGoals *int   `json:"awayGoals"`
	HomeLogo  string `json:"homeLogo,omitempty"`
	AwayLogo  string `json:"awayLogo,omitempty"`
	FixtureID int64  `json:"fixtureId,omitempty"`
}

type standingsFeedDTO struct {
	League    string        `json:"league"`
	Source    string        `json:"source"`
	Standings []standingDTO `json:"standings"`
}

type standingDTO struct {
	Position       int    `json:"position"`
	TeamName       string `json:"teamName"`
	TeamLogo       string `json:"teamLogo,omitempty"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Draw           int    `json:"draw"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
	Form           string `json:"form,omitempty"`
}

type scorersFeedDTO struct {
	League  string      `json:"league"`
	Source  string      `json:"source"`
	Scorers []scorerDTO `json:"scorers"`
}

type scorerDTO struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"playerName"`
	PlayerFoto string `json:"playerFoto,omitempty"`
	TeamName   string `json:"teamName"`
	TeamLogo   string `json:"teamLogo,omitempty"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
	Matches    int    `json:"matches"`
}

func matchesToDTO(ctx context.Context, fixtures []match.Match) []matchDTO {
	ctx, span := startSpan(ctx, "httpapi.matchesToDTO")
	defer span.End()

	items := make([]matchDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, matchToDTO(ctx, f))
	}
	return items
}

func matchToDTO(ctx context.Context, v match.Match) matchDTO {
	_, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	return matchDTO{
		ID:        v.ID,
		League:    v.League,
		HomeTeam:  v.HomeTeam,
		AwayTeam:  v.AwayTeam,
		KickoffAt: v.KickoffAt.UTC().Format(time.RFC3339),
		Status:    v.Status,
		HomeGoals: v.HomeGoals,
		AwayGoals: v.AwayGoals,
		HomeLogo:  v.HomeLogo,
		AwayLogo:  v.AwayLogo,
		FixtureID: v.FixtureID,
	}
}
