package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/soundous/haven-backend/internal/domain"
)

// summaryService defines the minimal interface needed by SummaryHandler.
type summaryService interface {
	Eligibility(ctx context.Context) (domain.SummaryEligibility, error)
	Generate(ctx context.Context) (string, error)
}

// SummaryHandler serves weekly summary endpoints.
type SummaryHandler struct {
	svc summaryService
	log *slog.Logger
}

// NewSummaryHandler creates a SummaryHandler.
func NewSummaryHandler(svc summaryService, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{svc: svc, log: logger.With("handler", "summary")}
}

type eligibilityResponse struct {
	CanGenerate   bool `json:"canGenerate"`
	DaysRemaining int  `json:"daysRemaining"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

// Eligibility handles GET /api/summary/eligibility. The verdict is
// advisory; Generate re-checks the cooldown on its own.
func (h *SummaryHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	elig, err := h.svc.Eligibility(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, eligibilityResponse{
		CanGenerate:   elig.CanGenerate,
		DaysRemaining: elig.DaysRemaining,
	})
}

// Generate handles POST /api/summary.
func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.Generate(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{Summary: text})
}
