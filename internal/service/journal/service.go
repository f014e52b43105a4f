// Package journal implements journal entry and gratitude note use cases.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soundous/haven-backend/internal/domain"
)

// entryRepo defines the journal entry repository interface.
type entryRepo interface {
	Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error)
	List(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error)
}

// gratitudeRepo defines the gratitude note repository interface.
type gratitudeRepo interface {
	Create(ctx context.Context, note *domain.GratitudeNote) (*domain.GratitudeNote, error)
	List(ctx context.Context) ([]*domain.GratitudeNote, error)
}

// imageStore uploads entry images and resolves their public URLs.
type imageStore interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
}

// generator defines the text-generation gateway interface.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service implements journal use cases.
type Service struct {
	log        *slog.Logger
	entries    entryRepo
	gratitudes gratitudeRepo
	images     imageStore
	gen        generator
	now        func() time.Time
}

// NewService creates a new journal service.
func NewService(logger *slog.Logger, entries entryRepo, gratitudes gratitudeRepo, images imageStore, gen generator) *Service {
	return &Service{
		log:        logger.With("service", "journal"),
		entries:    entries,
		gratitudes: gratitudes,
		images:     images,
		gen:        gen,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateEntryInput carries the fields for a new journal entry. Image is
// optional; an entry must carry text, an image, or both.
type CreateEntryInput struct {
	Content          string
	Image            []byte
	ImageContentType string
}

// CreateEntry stores a new journal entry. When an image is attached it is
// uploaded to object storage first and the entry records its public URL.
func (s *Service) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.JournalEntry, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" && len(input.Image) == 0 {
		return nil, domain.NewValidationError("content", "entry needs text or an image")
	}

	now := s.now()

	var imageURL *string
	if len(input.Image) > 0 {
		contentType := input.ImageContentType
		if contentType == "" {
			contentType = "image/png"
		}
		name := fmt.Sprintf("entry_%d.png", now.UnixMilli())
		key, err := s.images.Upload(ctx, name, input.Image, contentType)
		if err != nil {
			return nil, fmt.Errorf("journal.CreateEntry: upload image: %w", err)
		}
		url := s.images.PublicURL(key)
		imageURL = &url
	}

	entry, err := s.entries.Create(ctx, &domain.JournalEntry{
		ID:        uuid.New(),
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("journal.CreateEntry: %w", err)
	}

	s.log.Info("journal entry created",
		slog.String("id", entry.ID.String()),
		slog.Bool("has_image", entry.HasImage()),
	)

	return entry, nil
}

// ListEntries returns all journal entries, newest first.
func (s *Service) ListEntries(ctx context.Context) ([]*domain.JournalEntry, error) {
	entries, err := s.entries.List(ctx, domain.JournalFilter{})
	if err != nil {
		return nil, fmt.Errorf("journal.ListEntries: %w", err)
	}
	return entries, nil
}

// Reflect asks the companion for a short reflection on a past entry.
func (s *Service) Reflect(ctx context.Context, id uuid.UUID) (string, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("journal.Reflect: %w", err)
	}

	text, err := s.gen.Generate(ctx, memoryPrompt(entry))
	if err != nil {
		return "", fmt.Errorf("journal.Reflect: %w", err)
	}

	return text, nil
}

// CreateGratitude stores a new gratitude note.
func (s *Service) CreateGratitude(ctx context.Context, content string) (*domain.GratitudeNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewValidationError("content", "must not be empty")
	}

	note, err := s.gratitudes.Create(ctx, &domain.GratitudeNote{
		ID:        uuid.New(),
		Content:   content,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("journal.CreateGratitude: %w", err)
	}

	return note, nil
}

// ListGratitudes returns all gratitude notes, newest first.
func (s *Service) ListGratitudes(ctx context.Context) ([]*domain.GratitudeNote, error) {
	notes, err := s.gratitudes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("journal.ListGratitudes: %w", err)
	}
	return notes, nil
}

// memoryPrompt renders the reflection request for a past entry. Text and
// image are mentioned only when present.
func memoryPrompt(entry *domain.JournalEntry) string {
	var b strings.Builder
	b.WriteString("[Interface: Memory Reflection]\nSoundous is looking back at a past memory.")
	if strings.TrimSpace(entry.Content) != "" {
		fmt.Fprintf(&b, " The note says: %q", entry.Content)
	}
	if entry.HasImage() {
		b.WriteString(" The memory also has an image attached.")
	}
	b.WriteString("\n\nGenerate a gentle, short, and caring reflection on this memory for her, in your usual persona.")
	return b.String()
}
