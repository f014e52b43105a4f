package summary

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundous/haven-backend/internal/domain"
)

type journalReaderMock struct {
	ListFunc func(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error)
}

func (m *journalReaderMock) List(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error) {
	return m.ListFunc(ctx, f)
}

type summaryLogMock struct {
	CreateFunc          func(ctx context.Context, rec *domain.SummaryRecord) error
	LastGeneratedAtFunc func(ctx context.Context) (*time.Time, error)

	createCalls int
}

func (m *summaryLogMock) Create(ctx context.Context, rec *domain.SummaryRecord) error {
	m.createCalls++
	return m.CreateFunc(ctx, rec)
}

func (m *summaryLogMock) LastGeneratedAt(ctx context.Context) (*time.Time, error) {
	return m.LastGeneratedAtFunc(ctx)
}

type generatorMock struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *generatorMock) Generate(ctx context.Context, prompt string) (string, error) {
	return m.GenerateFunc(ctx, prompt)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Generate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("first summary ever", func(t *testing.T) {
		t.Parallel()

		entries := &journalReaderMock{
			ListFunc: func(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error) {
				require.NotNil(t, f.CreatedSince)
				assert.Equal(t, now.Add(-7*24*time.Hour), *f.CreatedSince)
				return nil, nil
			},
		}
		records := &summaryLogMock{
			LastGeneratedAtFunc: func(ctx context.Context) (*time.Time, error) { return nil, nil },
			CreateFunc: func(ctx context.Context, rec *domain.SummaryRecord) error {
				assert.Equal(t, now, rec.CreatedAt)
				return nil
			},
		}
		var gotPrompt string
		gen := &generatorMock{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
				gotPrompt = prompt
				return "a calm week", nil
			},
		}
		svc := NewService(discardLogger(), entries, records, gen).WithNow(func() time.Time { return now })

		text, err := svc.Generate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "a calm week", text)
		assert.Contains(t, gotPrompt, "hasn't written any notes this week")
		assert.Equal(t, 1, records.createCalls)
	})

	t.Run("inside the cooldown window", func(t *testing.T) {
		t.Parallel()

		last := now.Add(-6*24*time.Hour + 23*time.Hour)
		records := &summaryLogMock{
			LastGeneratedAtFunc: func(ctx context.Context) (*time.Time, error) { return &last, nil },
		}
		svc := NewService(discardLogger(), &journalReaderMock{}, records, &generatorMock{}).
			WithNow(func() time.Time { return now })

		_, err := svc.Generate(context.Background())
		require.ErrorIs(t, err, domain.ErrCooldown)

		var cdErr *CooldownError
		require.ErrorAs(t, err, &cdErr)
		assert.Equal(t, 1, cdErr.DaysRemaining)
		assert.Zero(t, records.createCalls)
	})

	t.Run("exactly seven days later", func(t *testing.T) {
		t.Parallel()

		last := now.Add(-7 * 24 * time.Hour)
		entries := &journalReaderMock{
			ListFunc: func(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error) {
				return nil, nil
			},
		}
		records := &summaryLogMock{
			LastGeneratedAtFunc: func(ctx context.Context) (*time.Time, error) { return &last, nil },
			CreateFunc:          func(ctx context.Context, rec *domain.SummaryRecord) error { return nil },
		}
		gen := &generatorMock{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) { return "ok", nil },
		}
		svc := NewService(discardLogger(), entries, records, gen).WithNow(func() time.Time { return now })

		_, err := svc.Generate(context.Background())
		require.NoError(t, err)
	})

	t.Run("gateway failure records nothing", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("model offline")
		entries := &journalReaderMock{
			ListFunc: func(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error) {
				return nil, nil
			},
		}
		records := &summaryLogMock{
			LastGeneratedAtFunc: func(ctx context.Context) (*time.Time, error) { return nil, nil },
		}
		gen := &generatorMock{
			GenerateFunc: func(ctx context.Context, prompt string) (string, error) { return "", wantErr },
		}
		svc := NewService(discardLogger(), entries, records, gen).WithNow(func() time.Time { return now })

		_, err := svc.Generate(context.Background())
		require.ErrorIs(t, err, wantErr)
		assert.Zero(t, records.createCalls)
	})
}

func TestBuildPrompt_EmptyWeek(t *testing.T) {
	t.Parallel()

	want := "[Interface: Weekly Summary]\n" +
		"Soundous hasn't written any notes this week. " +
		"Gently encourage her to share how she's feeling when she's ready." +
		"\nBased on this data, create a simple wellness summary for Soundous."

	assert.Equal(t, want, buildPrompt(nil))
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	img := "https://cdn.example/public/entry_1.png"
	long := strings.Repeat("a", 150)

	entries := []*domain.JournalEntry{
		{Content: "felt good today", CreatedAt: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)},
		{Content: long, ImageURL: &img, CreatedAt: time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)},
		{Content: "", ImageURL: &img, CreatedAt: time.Date(2025, 3, 6, 9, 0, 0, 0, time.UTC)},
	}

	prompt := buildPrompt(entries)

	assert.True(t, strings.HasPrefix(prompt,
		"[Interface: Weekly Summary]\nHere are some of Soundous's notes from the past week:\n"))
	assert.Contains(t, prompt, `- On 3/4/2025, she wrote: "felt good today..."`)
	assert.Contains(t, prompt, strings.Repeat("a", 100)+`..." [Image attached]`)
	assert.NotContains(t, prompt, strings.Repeat("a", 101))
	assert.Contains(t, prompt, "- On 3/6/2025, she wrote (Image only) [Image attached]")
	assert.True(t, strings.HasSuffix(prompt, "create a simple wellness summary for Soundous."))
}

func TestBuildPrompt_SingleEntry(t *testing.T) {
	t.Parallel()

	entries := []*domain.JournalEntry{
		{Content: "felt good today", CreatedAt: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)},
	}

	want := "[Interface: Weekly Summary]\n" +
		"Here are some of Soundous's notes from the past week:\n" +
		`- On 3/4/2025, she wrote: "felt good today..."` +
		"\nBased on this data, create a simple wellness summary for Soundous."

	assert.Equal(t, want, buildPrompt(entries))
}
