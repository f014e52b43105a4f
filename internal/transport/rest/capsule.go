package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/soundous/haven-backend/internal/domain"
	"github.com/soundous/haven-backend/internal/service/capsule"
)

// capsuleService defines the minimal interface needed by CapsuleHandler.
type capsuleService interface {
	Create(ctx context.Context, input capsule.CreateInput) (*domain.TimeCapsuleNote, error)
	GetActive(ctx context.Context) (*domain.TimeCapsuleNote, error)
	Open(ctx context.Context, id uuid.UUID) (*domain.TimeCapsuleNote, error)
	Delete(ctx context.Context) error
	Reflect(ctx context.Context) (string, error)
}

// CapsuleHandler serves time capsule endpoints.
type CapsuleHandler struct {
	svc capsuleService
	log *slog.Logger
	now func() time.Time
}

// NewCapsuleHandler creates a CapsuleHandler.
func NewCapsuleHandler(svc capsuleService, logger *slog.Logger) *CapsuleHandler {
	return &CapsuleHandler{
		svc: svc,
		log: logger.With("handler", "capsule"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

type createCapsuleRequest struct {
	Content string    `json:"content"`
	OpenAt  time.Time `json:"openAt"`
}

type capsuleResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content,omitempty"`
	OpenAt    time.Time `json:"openAt"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
}

// Create handles POST /api/capsule.
func (h *CapsuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCapsuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), capsule.CreateInput{
		Content: req.Content,
		OpenAt:  req.OpenAt,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.toResponse(created))
}

// Get handles GET /api/capsule. Absence is 404, not an error payload.
func (h *CapsuleHandler) Get(w http.ResponseWriter, r *http.Request) {
	got, err := h.svc.GetActive(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if got == nil {
		writeError(w, http.StatusNotFound, "no capsule")
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(got))
}

// Open handles POST /api/capsule/{id}/open.
func (h *CapsuleHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid capsule id")
		return
	}

	opened, err := h.svc.Open(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(opened))
}

// Delete handles DELETE /api/capsule.
func (h *CapsuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context()); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reflect handles POST /api/capsule/reflect.
func (h *CapsuleHandler) Reflect(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.Reflect(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, reflectionResponse{Reflection: text})
}

// toResponse hides the content of a still-locked capsule. The text only
// travels once the capsule is unlockable.
func (h *CapsuleHandler) toResponse(c *domain.TimeCapsuleNote) capsuleResponse {
	state := c.State(h.now())

	resp := capsuleResponse{
		ID:        c.ID.String(),
		OpenAt:    c.OpenAt,
		State:     string(state),
		CreatedAt: c.CreatedAt,
	}
	if state != domain.CapsuleSealed {
		resp.Content = c.Content
	}

	return resp
}
