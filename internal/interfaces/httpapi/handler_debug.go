package httpapi

import (
	"fmt"
	"net/http"

	"github.com/fulbito/fulbito/internal/usecase"
)

// ProbeScraper dumps what the scraper sees for today's calendar page. Debug
// only, not part of the reconciliation surface.
func (h *Handler) ProbeScraper(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProbeScraper")
	defer span.End()

	if h.prober == nil {
		writeError(ctx, w, fmt.Errorf("%w: scraper is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.prober.ProbeToday(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "scraper probe failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
