package sofascore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/match"
	"github.com/fulbito/fulbito/internal/domain/scorer"
	"github.com/fulbito/fulbito/internal/domain/standing"
	"github.com/fulbito/fulbito/internal/platform/cache"
	"github.com/fulbito/fulbito/internal/platform/logging"
	"github.com/fulbito/fulbito/internal/platform/resilience"
)

const (
	defaultBaseURL = "https://api.sofascore.com/api/v1"

	// Team badges are derived from the team id, no extra request needed.
	teamImageURLTemplate = "https://api.sofascore.app/api/v1/team/%d/image"

	// The provider rejects default Go user agents.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// Days fetched on each side of "now" for the fixtures window.
	fixtureWindowDays = 1

	maxResponseBytes = 4 << 20
)

var errProviderStatus = crerr.New("sofascore unexpected response status")

// Provider tournament ids for supported leagues.
var tournamentIDByLeague = map[string]int64{
	league.LigaProfesional: 155,
	league.PrimeraNacional: 703,
	league.LaLiga:          8,
	league.PremierLeague:   17,
}

// Known current-season ids. Leagues missing here go through the auto-detect
// path and land in the season cache.
var seasonIDByLeague = map[string]int64{
	league.LigaProfesional: 87913,
}

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *logging.Logger
	// Seasons caches auto-detected season ids for the life of the process.
	// Injected so tests can reset it between runs.
	Seasons *cache.Store
}

// Client reads near-live fixtures, standings and top scorers from the free
// provider. All operations are read-only; the only state it mutates is the
// season cache.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
	seasons    *cache.Store
	limiter    *rate.Limiter
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		// Shallow copy before defaulting; the caller's client stays untouched.
		copied := *httpClient
		copied.Timeout = 15 * time.Second
		httpClient = &copied
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	seasons := cfg.Seasons
	if seasons == nil {
		seasons = cache.NewStore(0)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
		seasons:    seasons,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// ResolveSeasonID returns the provider season id for a league: hardcoded
// table first, then the process-local cache, then one lookup against the
// provider's seasons listing taking the most recent entry. Returns 0 without
// error when the league has no tournament mapping.
func (c *Client) ResolveSeasonID(ctx context.Context, leagueName string) (int64, error) {
	if id, ok := seasonIDByLeague[leagueName]; ok {
		return id, nil
	}

	tournamentID, ok := tournamentIDByLeague[leagueName]
	if !ok {
		return 0, nil
	}

	cacheKey := "season:" + strconv.FormatInt(tournamentID, 10)
	if cached, ok := c.seasons.Get(ctx, cacheKey); ok {
		if id, ok := cached.(int64); ok {
			return id, nil
		}
	}

	var envelope seasonsEnvelope
	path := fmt.Sprintf("/unique-tournament/%d/seasons", tournamentID)
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return 0, fmt.Errorf("resolve season league=%s: %w", leagueName, err)
	}
	if len(envelope.Seasons) == 0 {
		return 0, fmt.Errorf("resolve season league=%s: empty seasons listing", leagueName)
	}

	// The listing is newest-first; the head is the current season. Season
	// ids are stable facts, so racing writers overwrite with the same value.
	id := envelope.Seasons[0].ID
	c.seasons.Set(ctx, cacheKey, id)
	return id, nil
}

// FetchFixtures returns the league's matches inside a ±1 day window around
// now. An unresolvable season yields an empty slice; transport and decode
// failures are returned for the caller to treat as "no data".
func (c *Client) FetchFixtures(ctx context.Context, leagueName string) ([]match.Match, error) {
	seasonID, err := c.ResolveSeasonID(ctx, leagueName)
	if err != nil {
		return nil, err
	}
	if seasonID == 0 {
		return nil, nil
	}

	tournamentID := tournamentIDByLeague[leagueName]
	now := time.Now().UTC()

	out := make([]match.Match, 0, 16)
	for offset := -fixtureWindowDays; offset <= fixtureWindowDays; offset++ {
		day := now.AddDate(0, 0, offset).Format("2006-01-02")

		var envelope scheduledEventsEnvelope
		path := "/sport/football/scheduled-events/" + day
		if err := c.doJSON(ctx, path, &envelope); err != nil {
			return nil, fmt.Errorf("fetch scheduled events date=%s: %w", day, err)
		}

		for _, event := range envelope.Events {
			if event.Tournament.UniqueTournament.ID != tournamentID {
				continue
			}
			out = append(out, adaptEvent(leagueName, event))
		}
	}

	return out, nil
}

// FetchStandings returns the current league table, or empty when the league
// season cannot be resolved.
func (c *Client) FetchStandings(ctx context.Context, leagueName string) ([]standing.Standing, error) {
	seasonID, err := c.ResolveSeasonID(ctx, leagueName)
	if err != nil {
		return nil, err
	}
	if seasonID == 0 {
		return nil, nil
	}

	tournamentID := tournamentIDByLeague[leagueName]
	path := fmt.Sprintf("/unique-tournament/%d/season/%d/standings/total", tournamentID, seasonID)

	var envelope standingsEnvelope
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings league=%s: %w", leagueName, err)
	}
	if len(envelope.Standings) == 0 {
		return nil, nil
	}

	rows := envelope.Standings[0].Rows
	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			League:         leagueName,
			Position:       row.Position,
			TeamName:       row.Team.Name,
			TeamLogo:       teamImageURL(row.Team.ID),
			Played:         row.Matches,
			Won:            row.Wins,
			Draw:           row.Draws,
			Lost:           row.Losses,
			GoalsFor:       row.ScoresFor,
			GoalsAgainst:   row.ScoresAgainst,
			GoalDifference: row.ScoresFor - row.ScoresAgainst,
			Points:         row.Points,
		})
	}

	return out, nil
}

// FetchTopScorers returns the league's goal leaders, empty when the season
// cannot be resolved.
func (c *Client) FetchTopScorers(ctx context.Context, leagueName string) ([]scorer.Scorer, error) {
	seasonID, err := c.ResolveSeasonID(ctx, leagueName)
	if err != nil {
		return nil, err
	}
	if seasonID == 0 {
		return nil, nil
	}

	tournamentID := tournamentIDByLeague[leagueName]
	path := fmt.Sprintf("/unique-tournament/%d/season/%d/top-players/overall", tournamentID, seasonID)

	var envelope topPlayersEnvelope
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return nil, fmt.Errorf("fetch top scorers league=%s: %w", leagueName, err)
	}

	rows := envelope.TopPlayers.Goals
	out := make([]scorer.Scorer, 0, len(rows))
	for i, row := range rows {
		out = append(out, scorer.Scorer{
			League:     leagueName,
			Rank:       i + 1,
			PlayerName: row.Player.Name,
			TeamName:   row.Team.Name,
			TeamLogo:   teamImageURL(row.Team.ID),
			Goals:      row.Statistics.Goals,
			Assists:    row.Statistics.Assists,
			Matches:    row.Statistics.Appearances,
		})
	}

	return out, nil
}

// ProbeReport is the raw diagnostic snapshot served by the debug endpoint.
type ProbeReport struct {
	Date           string         `json:"date"`
	TotalEvents    int            `json:"total_events"`
	EventsByLeague map[string]int `json:"events_by_league"`
	Samples        []ProbeSample  `json:"samples,omitempty"`
}

type ProbeSample struct {
	League   string `json:"league"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Status   string `json:"status"`
}

// ProbeToday hits the provider's schedule for today and echoes raw counts
// and a few samples. Manual verification only; not part of the
// reconciliation contract.
func (c *Client) ProbeToday(ctx context.Context) (ProbeReport, error) {
	day := time.Now().UTC().Format("2006-01-02")

	var envelope scheduledEventsEnvelope
	if err := c.doJSON(ctx, "/sport/football/scheduled-events/"+day, &envelope); err != nil {
		return ProbeReport{}, fmt.Errorf("probe scheduled events date=%s: %w", day, err)
	}

	report := ProbeReport{
		Date:           day,
		TotalEvents:    len(envelope.Events),
		EventsByLeague: make(map[string]int, len(tournamentIDByLeague)),
	}

	for leagueName, tournamentID := range tournamentIDByLeague {
		for _, event := range envelope.Events {
			if event.Tournament.UniqueTournament.ID != tournamentID {
				continue
			}
			report.EventsByLeague[leagueName]++
			if len(report.Samples) < 10 {
				report.Samples = append(report.Samples, ProbeSample{
					League:   leagueName,
					HomeTeam: event.HomeTeam.Name,
					AwayTeam: event.AwayTeam.Name,
					Status:   event.Status.Type,
				})
			}
		}
	}

	return report, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	fullURL := c.baseURL + path

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("send request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, crerr.Wrapf(errProviderStatus, "status=%d url=%s", resp.StatusCode, fullURL)
		}

		return raw, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "sofascore request failed", "url", fullURL, "error", err)
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		c.logger.WarnContext(ctx, "sofascore payload decode failed", "url", fullURL, "error", err)
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func adaptEvent(leagueName string, event eventItem) match.Match {
	return match.Match{
		League:    leagueName,
		HomeTeam:  event.HomeTeam.Name,
		AwayTeam:  event.AwayTeam.Name,
		KickoffAt: time.Unix(event.StartTimestamp, 0).UTC(),
		Status:    mapEventStatus(event.Status.Type),
		HomeGoals: pickScore(event.HomeScore),
		AwayGoals: pickScore(event.AwayScore),
		HomeLogo:  teamImageURL(event.HomeTeam.ID),
		AwayLogo:  teamImageURL(event.AwayTeam.ID),
		FixtureID: event.ID,
	}
}

func mapEventStatus(statusType string) string {
	switch statusType {
	case "notstarted":
		return match.StatusPrevia
	case "finished":
		return match.StatusFinalizado
	default:
		// inprogress and everything in between counts as live.
		return match.StatusEnJuego
	}
}

func pickScore(score scoreItem) *int {
	source := score.Current
	if source == nil {
		source = score.Display
	}
	if source == nil {
		return nil
	}
	value := *source
	return &value
}

func teamImageURL(teamID int64) string {
	if teamID <= 0 {
		return ""
	}
	return fmt.Sprintf(teamImageURLTemplate, teamID)
}
