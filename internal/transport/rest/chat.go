package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/soundous/haven-backend/internal/domain"
)

// chatService defines the minimal interface needed by ChatHandler.
type chatService interface {
	History(ctx context.Context) ([]*domain.ChatMessage, error)
	Send(ctx context.Context, content string) (*domain.ChatMessage, error)
	CheckIn(ctx context.Context, question, answer string) (string, error)
}

// ChatHandler serves companion chat endpoints.
type ChatHandler struct {
	svc chatService
	log *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(svc chatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: logger.With("handler", "chat")}
}

type messageResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type checkInRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type checkInResponse struct {
	Reply string `json:"reply"`
}

// History handles GET /api/chat/messages.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.History(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}

	writeJSON(w, http.StatusOK, out)
}

// Send handles POST /api/chat/messages.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.svc.Send(r.Context(), req.Content)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMessageResponse(reply))
}

// CheckIn handles POST /api/chat/checkin.
func (h *ChatHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.svc.CheckIn(r.Context(), req.Question, req.Answer)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, checkInResponse{Reply: reply})
}

func toMessageResponse(m *domain.ChatMessage) messageResponse {
	return messageResponse{
		ID:        m.ID.String(),
		Sender:    string(m.Sender),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
