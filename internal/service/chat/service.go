// Package chat implements the AI companion conversation.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soundous/haven-backend/internal/domain"
)

// greeting is the companion's opener for a brand-new conversation.
const greeting = "hey soundous 👋 how u doin today?"

// messageRepo defines the chat message repository interface.
type messageRepo interface {
	Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error)
	List(ctx context.Context) ([]*domain.ChatMessage, error)
}

// companion defines the conversational gateway interface.
type companion interface {
	Chat(ctx context.Context, history []*domain.ChatMessage, message string) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service manages the conversation with the companion.
type Service struct {
	log      *slog.Logger
	messages messageRepo
	ai       companion
	now      func() time.Time
}

// NewService creates a new chat service.
func NewService(logger *slog.Logger, messages messageRepo, ai companion) *Service {
	return &Service{
		log:      logger.With("service", "chat"),
		messages: messages,
		ai:       ai,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// History returns the conversation oldest-first. A brand-new conversation
// is seeded with the companion's greeting so the client never renders an
// empty screen.
func (s *Service) History(ctx context.Context) ([]*domain.ChatMessage, error) {
	msgs, err := s.messages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("chat.History: %w", err)
	}
	if len(msgs) > 0 {
		return msgs, nil
	}

	opener, err := s.messages.Create(ctx, &domain.ChatMessage{
		ID:        uuid.New(),
		Sender:    domain.SenderAI,
		Content:   greeting,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("chat.History: seed greeting: %w", err)
	}

	return []*domain.ChatMessage{opener}, nil
}

// Send appends the user's message to the conversation, asks the companion
// for a reply, and persists that reply. When the gateway fails the user's
// message stays recorded but no companion turn is stored; the error
// surfaces so the client can retry.
func (s *Service) Send(ctx context.Context, content string) (*domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewValidationError("content", "must not be empty")
	}

	history, err := s.messages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("chat.Send: %w", err)
	}

	if _, err := s.messages.Create(ctx, &domain.ChatMessage{
		ID:        uuid.New(),
		Sender:    domain.SenderUser,
		Content:   content,
		CreatedAt: s.now(),
	}); err != nil {
		return nil, fmt.Errorf("chat.Send: store message: %w", err)
	}

	replyText, err := s.ai.Chat(ctx, history, content)
	if err != nil {
		return nil, fmt.Errorf("chat.Send: %w", err)
	}

	reply, err := s.messages.Create(ctx, &domain.ChatMessage{
		ID:        uuid.New(),
		Sender:    domain.SenderAI,
		Content:   replyText,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("chat.Send: store reply: %w", err)
	}

	s.log.Info("chat turn completed", slog.Int("history_len", len(history)))

	return reply, nil
}

// CheckIn produces a one-off caring reply to a daily check-in answer.
// Check-in exchanges live outside the chat history and are not stored.
func (s *Service) CheckIn(ctx context.Context, question, answer string) (string, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" {
		return "", domain.NewValidationError("question", "must not be empty")
	}
	if answer == "" {
		return "", domain.NewValidationError("answer", "must not be empty")
	}

	prompt := fmt.Sprintf(
		"Soundous is answering a daily check-in. Her answer to %q is %q. "+
			"Give her a short, caring, and informal reply in your usual persona.",
		question, answer,
	)

	reply, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat.CheckIn: %w", err)
	}

	return reply, nil
}
