package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fulbito/fulbito/external/sofascore"
	"github.com/fulbito/fulbito/internal/usecase"
)

// ScraperProber exposes the raw scraper diagnostics behind the debug route.
type ScraperProber interface {
	ProbeToday(ctx context.Context) (sofascore.ProbeReport, error)
}

type Handler struct {
	fixtureService   *usecase.FixtureService
	standingsService *usecase.StandingsService
	topScorerService *usecase.TopScorerService
	scoreService     *usecase.ScoreUpdateService
	prober           ScraperProber
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	fixtureService *usecase.FixtureService,
	standingsService *usecase.StandingsService,
	topScorerService *usecase.TopScorerService,
	scoreService *usecase.ScoreUpdateService,
	prober ScraperProber,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		fixtureService:   fixtureService,
		standingsService: standingsService,
		topScorerService: topScorerService,
		scoreService:     scoreService,
		prober:           prober,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
