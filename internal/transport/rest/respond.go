package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/soundous/haven-backend/internal/domain"
	"github.com/soundous/haven-backend/internal/service/summary"
)

// Companion-voiced messages shown when the AI gateway misbehaves. The
// client renders these verbatim in the chat bubble.
const (
	msgRateLimited = "It seems I've reached my daily limit for our chats, Soundous. " +
		"I'm so sorry for the interruption. My systems need a little time to recharge. " +
		"Please try connecting again tomorrow; I'll be here."
	msgUnavailable = "Oh, something went wrong with our connection, Soundous. " +
		"Could you please check your internet and try again?"
)

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps service errors onto HTTP statuses. Cooldown violations
// carry the remaining days so the client can show a countdown.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var cdErr *summary.CooldownError

	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &cdErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":         cdErr.Error(),
			"daysRemaining": cdErr.DaysRemaining,
		})
	case errors.Is(err, domain.ErrCooldown), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, msgRateLimited)
	case errors.Is(err, domain.ErrUnavailable):
		writeError(w, http.StatusBadGateway, msgUnavailable)
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
