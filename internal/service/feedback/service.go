// Package feedback implements the write-only feedback drop box.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soundous/haven-backend/internal/domain"
)

type feedbackRepo interface {
	Create(ctx context.Context, fb *domain.Feedback) error
}

// Service records user feedback.
type Service struct {
	log  *slog.Logger
	repo feedbackRepo
	now  func() time.Time
}

// NewService creates a new feedback service.
func NewService(logger *slog.Logger, repo feedbackRepo) *Service {
	return &Service{
		log:  logger.With("service", "feedback"),
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Submit stores a feedback record. The sender address is best-effort
// context, never an identity.
func (s *Service) Submit(ctx context.Context, content string, ipAddress *string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.NewValidationError("content", "must not be empty")
	}

	err := s.repo.Create(ctx, &domain.Feedback{
		ID:        uuid.New(),
		Content:   content,
		IPAddress: ipAddress,
		CreatedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("feedback.Submit: %w", err)
	}

	s.log.Info("feedback received")

	return nil
}
