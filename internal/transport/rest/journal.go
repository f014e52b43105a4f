package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/soundous/haven-backend/internal/domain"
	"github.com/soundous/haven-backend/internal/service/journal"
)

// maxImageSize caps uploaded entry images at 10 MiB.
const maxImageSize = 10 << 20

// journalService defines the minimal interface needed by JournalHandler.
type journalService interface {
	CreateEntry(ctx context.Context, input journal.CreateEntryInput) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context) ([]*domain.JournalEntry, error)
	Reflect(ctx context.Context, id uuid.UUID) (string, error)
	CreateGratitude(ctx context.Context, content string) (*domain.GratitudeNote, error)
	ListGratitudes(ctx context.Context) ([]*domain.GratitudeNote, error)
}

// JournalHandler serves journal entry and gratitude note endpoints.
type JournalHandler struct {
	svc journalService
	log *slog.Logger
}

// NewJournalHandler creates a JournalHandler.
func NewJournalHandler(svc journalService, logger *slog.Logger) *JournalHandler {
	return &JournalHandler{svc: svc, log: logger.With("handler", "journal")}
}

type entryResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type noteResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type reflectionResponse struct {
	Reflection string `json:"reflection"`
}

// CreateEntry handles POST /api/journal/entries. The body is
// multipart/form-data with a "content" field and an optional "image" file.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	input := journal.CreateEntryInput{Content: r.FormValue("content")}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, "could not read image")
			return
		}
		if len(data) > maxImageSize {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		input.Image = data
		input.ImageContentType = header.Header.Get("Content-Type")
	}

	entry, err := h.svc.CreateEntry(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

// ListEntries handles GET /api/journal/entries.
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListEntries(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}

	writeJSON(w, http.StatusOK, out)
}

// ReflectEntry handles POST /api/journal/entries/{id}/reflect.
func (h *JournalHandler) ReflectEntry(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	text, err := h.svc.Reflect(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, reflectionResponse{Reflection: text})
}

type createNoteRequest struct {
	Content string `json:"content"`
}

// CreateGratitude handles POST /api/gratitude.
func (h *JournalHandler) CreateGratitude(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.svc.CreateGratitude(r.Context(), req.Content)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// ListGratitudes handles GET /api/gratitude.
func (h *JournalHandler) ListGratitudes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.ListGratitudes(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}

	writeJSON(w, http.StatusOK, out)
}

func toEntryResponse(e *domain.JournalEntry) entryResponse {
	return entryResponse{
		ID:        e.ID.String(),
		Content:   e.Content,
		ImageURL:  e.ImageURL,
		CreatedAt: e.CreatedAt,
	}
}

func toNoteResponse(n *domain.GratitudeNote) noteResponse {
	return noteResponse{
		ID:        n.ID.String(),
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}
