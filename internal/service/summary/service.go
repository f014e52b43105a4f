// Package summary produces the weekly wellness summary and enforces its
// seven-day generation cooldown.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soundous/haven-backend/internal/domain"
)

const fallbackWeek = "Soundous hasn't written any notes this week. " +
	"Gently encourage her to share how she's feeling when she's ready."

// journalReader lists journal entries written since a point in time.
type journalReader interface {
	List(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error)
}

// summaryLog records and reads back generation timestamps.
type summaryLog interface {
	Create(ctx context.Context, rec *domain.SummaryRecord) error
	LastGeneratedAt(ctx context.Context) (*time.Time, error)
}

// generator defines the text-generation gateway interface.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CooldownError reports how many whole days remain before the next
// summary may be generated.
type CooldownError struct {
	DaysRemaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("summary cooldown active: %d day(s) remaining", e.DaysRemaining)
}

func (e *CooldownError) Unwrap() error { return domain.ErrCooldown }

// Service generates weekly summaries.
type Service struct {
	log     *slog.Logger
	entries journalReader
	records summaryLog
	gen     generator
	now     func() time.Time
}

// NewService creates a new summary service.
func NewService(logger *slog.Logger, entries journalReader, records summaryLog, gen generator) *Service {
	return &Service{
		log:     logger.With("service", "summary"),
		entries: entries,
		records: records,
		gen:     gen,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Eligibility reports whether a summary may be generated right now and,
// when not, how many days remain. The boundary is exact: at precisely
// seven days since the last generation the cooldown has expired.
func (s *Service) Eligibility(ctx context.Context) (domain.SummaryEligibility, error) {
	last, err := s.records.LastGeneratedAt(ctx)
	if err != nil {
		return domain.SummaryEligibility{}, fmt.Errorf("summary.Eligibility: %w", err)
	}
	return domain.CheckSummaryEligibility(s.now(), last), nil
}

// Generate produces a new weekly summary. The cooldown is re-checked here
// regardless of what any caller previously observed; a request inside the
// window fails with *CooldownError and records nothing.
func (s *Service) Generate(ctx context.Context) (string, error) {
	now := s.now()

	last, err := s.records.LastGeneratedAt(ctx)
	if err != nil {
		return "", fmt.Errorf("summary.Generate: %w", err)
	}
	if elig := domain.CheckSummaryEligibility(now, last); !elig.CanGenerate {
		return "", fmt.Errorf("summary.Generate: %w", &CooldownError{DaysRemaining: elig.DaysRemaining})
	}

	since := now.Add(-domain.SummaryCooldown)
	entries, err := s.entries.List(ctx, domain.JournalFilter{CreatedSince: &since})
	if err != nil {
		return "", fmt.Errorf("summary.Generate: %w", err)
	}

	prompt := buildPrompt(entries)

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("summary.Generate: %w", err)
	}

	if err := s.records.Create(ctx, &domain.SummaryRecord{ID: uuid.New(), CreatedAt: now}); err != nil {
		return "", fmt.Errorf("summary.Generate: record: %w", err)
	}

	s.log.Info("weekly summary generated", slog.Int("entries", len(entries)))

	return text, nil
}

// buildPrompt renders the past week's entries into the summary request.
// Each entry contributes one line with its date, the first hundred
// characters of its text, and a marker whenever an image is attached.
// A week with entries opens with a fixed header; the empty-week fallback
// stands alone.
func buildPrompt(entries []*domain.JournalEntry) string {
	var week string
	if len(entries) == 0 {
		week = fallbackWeek
	} else {
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			var b strings.Builder
			b.WriteString("- On ")
			b.WriteString(e.CreatedAt.Format("1/2/2006"))
			b.WriteString(", she wrote")
			if strings.TrimSpace(e.Content) != "" {
				b.WriteString(`: "`)
				b.WriteString(truncate(e.Content, 100))
				b.WriteString(`..."`)
			} else {
				b.WriteString(" (Image only)")
			}
			if e.HasImage() {
				b.WriteString(" [Image attached]")
			}
			lines = append(lines, b.String())
		}
		week = "Here are some of Soundous's notes from the past week:\n" +
			strings.Join(lines, "\n")
	}

	return "[Interface: Weekly Summary]\n" + week +
		"\nBased on this data, create a simple wellness summary for Soundous."
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
