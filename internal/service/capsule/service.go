// Package capsule implements the time-capsule lifecycle manager.
//
// The capsule moves through Absent → Sealed → Unlockable → Opened → Absent.
// Sealed → Unlockable is derived from wall-clock time, never stored; the
// single-capsule invariant is enforced by replacing any predecessor inside
// one transaction.
package capsule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soundous/haven-backend/internal/domain"
)

// capsuleRepo defines the repository interface needed by the lifecycle manager.
type capsuleRepo interface {
	Create(ctx context.Context, c *domain.TimeCapsuleNote) (*domain.TimeCapsuleNote, error)
	GetActive(ctx context.Context) (*domain.TimeCapsuleNote, error)
	Open(ctx context.Context, id uuid.UUID, now time.Time) (*domain.TimeCapsuleNote, error)
	DeleteAll(ctx context.Context) (int, error)
}

// txManager defines the transaction manager interface needed by Create.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// generator defines the text-generation gateway interface needed by Reflect.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service manages the single time capsule.
type Service struct {
	log      *slog.Logger
	capsules capsuleRepo
	tx       txManager
	gen      generator
	now      func() time.Time
}

// NewService creates a new capsule lifecycle service.
func NewService(logger *slog.Logger, capsules capsuleRepo, tx txManager, gen generator) *Service {
	return &Service{
		log:      logger.With("service", "capsule"),
		capsules: capsules,
		tx:       tx,
		gen:      gen,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput carries the fields for sealing a new capsule.
type CreateInput struct {
	Content string
	OpenAt  time.Time
}

// Create seals a new capsule. Any pre-existing capsule — sealed or already
// opened — is removed first, inside the same transaction, so exactly one
// row survives any sequence of Create calls.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.TimeCapsuleNote, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.NewValidationError("content", "must not be empty")
	}

	now := s.now()
	if err := domain.ValidateOpenAt(now, input.OpenAt); err != nil {
		return nil, err
	}

	capsule := &domain.TimeCapsuleNote{
		ID:        uuid.New(),
		Content:   input.Content,
		OpenAt:    input.OpenAt,
		CreatedAt: now,
	}

	var created *domain.TimeCapsuleNote
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.capsules.DeleteAll(txCtx); err != nil {
			return fmt.Errorf("remove previous capsule: %w", err)
		}

		got, err := s.capsules.Create(txCtx, capsule)
		if err != nil {
			return fmt.Errorf("insert capsule: %w", err)
		}
		created = got
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("capsule.Create: %w", err)
	}

	s.log.Info("capsule sealed",
		slog.String("id", created.ID.String()),
		slog.Time("open_at", created.OpenAt),
	)

	return created, nil
}

// GetActive returns the current capsule, or (nil, nil) when none exists.
func (s *Service) GetActive(ctx context.Context) (*domain.TimeCapsuleNote, error) {
	capsule, err := s.capsules.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("capsule.GetActive: %w", err)
	}
	return capsule, nil
}

// Open marks the capsule as opened. The repository update is conditional on
// the capsule being exactly unlockable at call time, so the transition is
// validated server-side and a rapid duplicate call cannot open twice.
// Opening an already-opened capsule is a no-op returning the current row;
// opening a still-sealed one returns domain.ErrConflict.
func (s *Service) Open(ctx context.Context, id uuid.UUID) (*domain.TimeCapsuleNote, error) {
	opened, err := s.capsules.Open(ctx, id, s.now())
	if err == nil {
		s.log.Info("capsule opened", slog.String("id", id.String()))
		return opened, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("capsule.Open: %w", err)
	}

	// Zero rows matched: unknown id, already opened, or still sealed.
	current, getErr := s.capsules.GetActive(ctx)
	if getErr != nil {
		return nil, fmt.Errorf("capsule.Open: %w", getErr)
	}
	switch {
	case current == nil || current.ID != id:
		return nil, fmt.Errorf("capsule.Open: %w", domain.ErrNotFound)
	case current.Opened:
		return current, nil
	default:
		return nil, fmt.Errorf("capsule.Open: not unlockable yet: %w", domain.ErrConflict)
	}
}

// Delete removes the capsule unconditionally; abandoning a still-sealed
// capsule is a valid path. Missing capsule is not an error.
func (s *Service) Delete(ctx context.Context) error {
	if _, err := s.capsules.DeleteAll(ctx); err != nil {
		return fmt.Errorf("capsule.Delete: %w", err)
	}
	return nil
}

// Reflect asks the companion for a short reflection on an opened capsule.
// A gateway failure surfaces to the caller and leaves capsule state untouched.
func (s *Service) Reflect(ctx context.Context) (string, error) {
	capsule, err := s.capsules.GetActive(ctx)
	if err != nil {
		return "", fmt.Errorf("capsule.Reflect: %w", err)
	}
	if capsule == nil {
		return "", fmt.Errorf("capsule.Reflect: %w", domain.ErrNotFound)
	}
	if !capsule.Opened {
		return "", fmt.Errorf("capsule.Reflect: capsule not opened: %w", domain.ErrConflict)
	}

	prompt := fmt.Sprintf(
		"Soundous wrote a message to her future self on %s. Today, she opened it. "+
			"The message is: %q. Generate a gentle, short, and caring reflection on this moment for her, in your usual persona.",
		capsule.CreatedAt.Format("1/2/2006"), capsule.Content,
	)

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("capsule.Reflect: %w", err)
	}

	return text, nil
}
