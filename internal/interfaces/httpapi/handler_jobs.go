package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/fulbito/fulbito/internal/usecase"
)

// scoreUpdateResponse is the flat body the cron caller parses. It is kept
// outside the envelope on purpose: the scheduler only checks `success` and
// the counters.
type scoreUpdateResponse struct {
	Success bool     `json:"success"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors,omitempty"`
}

func (h *Handler) RunScoreUpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreUpdateJob")
	defer span.End()

	if h.scoreService == nil {
		h.logger.ErrorContext(ctx, "score update job invoked without a configured service")
		writeJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}

	result, err := h.scoreService.Run(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "score update job failed", "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}

	writeJSON(ctx, w, http.StatusOK, scoreUpdateResponse{
		Success: true,
		Updated: result.Updated,
		Errors:  result.Errors,
	})
}

type correctScoreRequest struct {
	HomeGoals *int `json:"home_goals" validate:"required,min=0"`
	AwayGoals *int `json:"away_goals" validate:"required,min=0"`
}

func (h *Handler) CorrectMatchScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CorrectMatchScore")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req correctScoreRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.scoreService.CorrectScore(ctx, matchID, *req.HomeGoals, *req.AwayGoals); err != nil {
		h.logger.WarnContext(ctx, "correct score failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}
