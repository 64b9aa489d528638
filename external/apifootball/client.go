package apifootball

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/fulbito/fulbito/internal/domain/league"
	"github.com/fulbito/fulbito/internal/domain/match"
	"github.com/fulbito/fulbito/internal/domain/scorer"
	"github.com/fulbito/fulbito/internal/domain/standing"
	"github.com/fulbito/fulbito/internal/platform/logging"
	"github.com/fulbito/fulbito/internal/platform/resilience"
	"github.com/fulbito/fulbito/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"

	apiKeyHeader = "x-apisports-key"

	// Days fetched on each side of "now" for the wide fixtures window.
	fixtureRangeDays = 15

	maxResponseBytes = 6 << 20
)

var errAPIFootballTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Key            string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client is the paid fallback source. Every read short-circuits to empty
// when no API key is configured so the free path keeps working on
// unconfigured deploys.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	key            string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
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
		copied.Timeout = 20 * time.Second
		httpClient = &copied
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		key:            strings.TrimSpace(cfg.Key),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.key != ""
}

// GetFixturesByDateRange returns the league's fixtures inside a ±15 day
// window around now.
func (c *Client) GetFixturesByDateRange(ctx context.Context, leagueName string) ([]match.Match, error) {
	if !c.Enabled() {
		return nil, nil
	}
	leagueID, ok := league.ResolveID(leagueName)
	if !ok {
		return nil, nil
	}

	now := time.Now().UTC()
	query := map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(league.ResolveSeason(leagueName)),
		"from":   now.AddDate(0, 0, -fixtureRangeDays).Format("2006-01-02"),
		"to":     now.AddDate(0, 0, fixtureRangeDays).Format("2006-01-02"),
	}

	return c.fetchFixtures(ctx, leagueName, query)
}

// GetFixturesByDate returns the league's fixtures for one calendar day.
func (c *Client) GetFixturesByDate(ctx context.Context, leagueName string, day time.Time) ([]match.Match, error) {
	if !c.Enabled() {
		return nil, nil
	}
	leagueID, ok := league.ResolveID(leagueName)
	if !ok {
		return nil, nil
	}

	query := map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(league.ResolveSeason(leagueName)),
		"date":   day.UTC().Format("2006-01-02"),
	}

	return c.fetchFixtures(ctx, leagueName, query)
}

// GetFixtureByID looks up a single fixture. The second return is false when
// the provider does not know the id.
func (c *Client) GetFixtureByID(ctx context.Context, fixtureID int64) (match.Match, bool, error) {
	if !c.Enabled() || fixtureID <= 0 {
		return match.Match{}, false, nil
	}

	var envelope fixturesEnvelope
	query := map[string]string{"id": strconv.FormatInt(fixtureID, 10)}
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return match.Match{}, false, fmt.Errorf("fetch fixture id=%d: %w", fixtureID, err)
	}
	if len(envelope.Response) == 0 {
		return match.Match{}, false, nil
	}

	item := envelope.Response[0]
	return adaptFixture(item.League.Name, item), true, nil
}

// GetRoundsList returns the season's round labels in schedule order.
func (c *Client) GetRoundsList(ctx context.Context, leagueName string) ([]string, error) {
	if !c.Enabled() {
		return nil, nil
	}
	leagueID, ok := league.ResolveID(leagueName)
	if !ok {
		return nil, nil
	}

	var envelope roundsEnvelope
	query := map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(league.ResolveSeason(leagueName)),
	}
	if err := c.doJSON(ctx, "/fixtures/rounds", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch rounds league=%s: %w", leagueName, err)
	}

	return envelope.Response, nil
}

// GetFixturesByRound returns all fixtures of one named round.
func (c *Client) GetFixturesByRound(ctx context.Context, leagueName, round string) ([]match.Match, error) {
	if !c.Enabled() || round == "" {
		return nil, nil
	}
	leagueID, ok := league.ResolveID(leagueName)
	if !ok {
		return nil, nil
	}

	query := map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(league.ResolveSeason(leagueName)),
		"round":  round,
	}

	return c.fetchFixtures(ctx, leagueName, query)
}

// GetStandings returns the league table for the registry season.
func (c *Client) GetStandings(ctx context.Context, leagueName string) ([]standing.Standing, error) {
	if !c.Enabled() {
		return nil, nil
	}
	leagueID, ok := league.ResolveID(leagueName)
	if !ok {
		return nil, nil
	}

	var envelope standingsEnvelope
	query := map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(league.ResolveSeason(leagueName)),
	}
	if err := c.doJSON(ctx, "/standings", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings league=%s: %w", leagueName, err)
	}
	if len(envelope.Response) == 0 || len(envelope.Response[0].League.Standings) == 0 {
		return nil, nil
	}

	rows := envelope.Response[0].League.Standings[0]
	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			League:         leagueName,
			Position:       row.Rank,
			TeamName:       row.Team.Name,
			TeamLogo:       row.Team.Logo,
			Played:         row.All.Played,
			Won:            row.All.Win,
			Draw:           row.All.Draw,
			Lost:           row.All.Lose,
			GoalsFor:       row.All.Goals.For,
			GoalsAgainst:   row.All.Goals.Against,
			GoalDifference: row.GoalsDiff,
			Points:         row.Points,
			Form:           row.Form,
		})
	}

	return out, nil
}

// GetTopScorers returns the league's goal leaders for the registry season.
func (c *Client) GetTopScorers(ctx context.Context, leagueName string) ([]scorer.Scorer, error) {
	if !c.Enabled() {
		return nil, nil
	}
	leagueID, ok := league.ResolveID(leagueName)
	if !ok {
		return nil, nil
	}

	var envelope scorersEnvelope
	query := map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(league.ResolveSeason(leagueName)),
	}
	if err := c.doJSON(ctx, "/players/topscorers", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch top scorers league=%s: %w", leagueName, err)
	}

	out := make([]scorer.Scorer, 0, len(envelope.Response))
	for i, item := range envelope.Response {
		row := scorer.Scorer{
			League:     leagueName,
			Rank:       i + 1,
			PlayerName: item.Player.Name,
			PlayerFoto: item.Player.Photo,
		}
		if len(item.Statistics) > 0 {
			stats := item.Statistics[0]
			row.TeamName = stats.Team.Name
			row.TeamLogo = stats.Team.Logo
			row.Matches = stats.Games.Appearences
			if stats.Goals.Total != nil {
				row.Goals = *stats.Goals.Total
			}
			if stats.Goals.Assists != nil {
				row.Assists = *stats.Goals.Assists
			}
		}
		out = append(out, row)
	}

	return out, nil
}

func (c *Client) fetchFixtures(ctx context.Context, leagueName string, query map[string]string) ([]match.Match, error) {
	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures league=%s: %w", leagueName, err)
	}

	out := make([]match.Match, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		out = append(out, adaptFixture(leagueName, item))
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errAPIFootballTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	// The provider reports request problems inside a 200 body.
	if msg := envelopeErrorText(raw); msg != "" {
		c.logger.WarnContext(ctx, "api-football reported errors", "url", fullURL, "errors", msg)
		return fmt.Errorf("provider errors: %s", msg)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.key)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errAPIFootballTransient, sanitizeSensitiveText(err.Error(), c.key))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errAPIFootballTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errAPIFootballTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func adaptFixture(leagueName string, item fixtureItem) match.Match {
	kickoff := time.Unix(item.Fixture.Timestamp, 0).UTC()

	out := match.Match{
		League:    leagueName,
		HomeTeam:  item.Teams.Home.Name,
		AwayTeam:  item.Teams.Away.Name,
		KickoffAt: kickoff,
		Status:    mapShortStatus(item.Fixture.Status.Short, kickoff),
		HomeLogo:  item.Teams.Home.Logo,
		AwayLogo:  item.Teams.Away.Logo,
		FixtureID: item.Fixture.ID,
	}

	if item.Goals.Home != nil {
		value := *item.Goals.Home
		out.HomeGoals = &value
	}
	if item.Goals.Away != nil {
		value := *item.Goals.Away
		out.AwayGoals = &value
	}

	return out
}

func mapShortStatus(short string, kickoff time.Time) string {
	switch short {
	case "":
		// Some feeds omit the status block; fall back to the clock.
		return match.DeriveStatus(kickoff, time.Now().UTC())
	case "NS", "TBD":
		return match.StatusPrevia
	case "FT", "AET", "PEN":
		return match.StatusFinalizado
	default:
		return match.StatusEnJuego
	}
}

// envelopeErrorText renders the provider's errors field, empty when clean.
func envelopeErrorText(raw []byte) string {
	var probe struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := sonic.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	trimmed := bytes.TrimSpace(probe.Errors)
	switch string(trimmed) {
	case "", "[]", "{}", "null":
		return ""
	}
	return string(trimmed)
}

func sanitizeSensitiveText(value, key string) string {
	value = strings.TrimSpace(value)
	if value == "" || key == "" {
		return value
	}
	return strings.ReplaceAll(value, key, "REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
