package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/soundous/haven-backend/internal/service/account"
)

// accountService defines the minimal interface needed by AccountHandler.
type accountService interface {
	Wipe(ctx context.Context) (account.WipeResult, error)
}

// AccountHandler serves whole-account operations.
type AccountHandler struct {
	svc accountService
	log *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(svc accountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, log: logger.With("handler", "account")}
}

type wipeResponse struct {
	RowsDeleted   int `json:"rowsDeleted"`
	ImagesDeleted int `json:"imagesDeleted"`
}

// Wipe handles DELETE /api/data. A partial failure returns 500; the
// operation is idempotent, so the client retries the same call.
func (h *AccountHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Wipe(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, wipeResponse{
		RowsDeleted:   res.RowsDeleted,
		ImagesDeleted: res.ImagesDeleted,
	})
}
