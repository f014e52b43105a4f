package journal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundous/haven-backend/internal/domain"
)

type entryRepoMock struct {
	CreateFunc  func(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error)
	ListFunc    func(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error)
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error)
}

func (m *entryRepoMock) Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	return m.CreateFunc(ctx, entry)
}

func (m *entryRepoMock) List(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error) {
	return m.ListFunc(ctx, f)
}

func (m *entryRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	return m.GetByIDFunc(ctx, id)
}

type gratitudeRepoMock struct {
	CreateFunc func(ctx context.Context, note *domain.GratitudeNote) (*domain.GratitudeNote, error)
	ListFunc   func(ctx context.Context) ([]*domain.GratitudeNote, error)
}

func (m *gratitudeRepoMock) Create(ctx context.Context, note *domain.GratitudeNote) (*domain.GratitudeNote, error) {
	return m.CreateFunc(ctx, note)
}

func (m *gratitudeRepoMock) List(ctx context.Context) ([]*domain.GratitudeNote, error) {
	return m.ListFunc(ctx)
}

type imageStoreMock struct {
	UploadFunc    func(ctx context.Context, name string, data []byte, contentType string) (string, error)
	PublicURLFunc func(key string) string

	uploads int
}

func (m *imageStoreMock) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	m.uploads++
	return m.UploadFunc(ctx, name, data, contentType)
}

func (m *imageStoreMock) PublicURL(key string) string {
	return m.PublicURLFunc(key)
}

type generatorMock struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *generatorMock) Generate(ctx context.Context, prompt string) (string, error) {
	return m.GenerateFunc(ctx, prompt)
}

func newTestService(entries *entryRepoMock, gratitudes *gratitudeRepoMock, images *imageStoreMock, gen *generatorMock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, entries, gratitudes, images, gen)
}

func TestService_CreateEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("text only", func(t *testing.T) {
		t.Parallel()

		images := &imageStoreMock{}
		entries := &entryRepoMock{
			CreateFunc: func(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
				assert.Equal(t, "today was okay", entry.Content)
				assert.Nil(t, entry.ImageURL)
				return entry, nil
			},
		}
		svc := newTestService(entries, nil, images, nil).WithNow(func() time.Time { return now })

		got, err := svc.CreateEntry(context.Background(), CreateEntryInput{Content: "  today was okay  "})
		require.NoError(t, err)
		assert.Equal(t, "today was okay", got.Content)
		assert.Zero(t, images.uploads)
	})

	t.Run("image upload names the object by timestamp", func(t *testing.T) {
		t.Parallel()

		images := &imageStoreMock{
			UploadFunc: func(ctx context.Context, name string, data []byte, contentType string) (string, error) {
				assert.Equal(t, "entry_1741608000000.png", name)
				assert.Equal(t, "image/png", contentType)
				return "public/" + name, nil
			},
			PublicURLFunc: func(key string) string {
				return "https://cdn.example/" + key
			},
		}
		entries := &entryRepoMock{
			CreateFunc: func(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
				require.NotNil(t, entry.ImageURL)
				assert.Equal(t, "https://cdn.example/public/entry_1741608000000.png", *entry.ImageURL)
				return entry, nil
			},
		}
		svc := newTestService(entries, nil, images, nil).WithNow(func() time.Time { return now })

		_, err := svc.CreateEntry(context.Background(), CreateEntryInput{Image: []byte{0x89, 0x50}})
		require.NoError(t, err)
	})

	t.Run("empty entry is rejected", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(&entryRepoMock{}, nil, &imageStoreMock{}, nil)

		_, err := svc.CreateEntry(context.Background(), CreateEntryInput{Content: "   "})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("upload failure creates no entry", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("bucket down")
		images := &imageStoreMock{
			UploadFunc: func(ctx context.Context, name string, data []byte, contentType string) (string, error) {
				return "", wantErr
			},
		}
		created := false
		entries := &entryRepoMock{
			CreateFunc: func(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
				created = true
				return entry, nil
			},
		}
		svc := newTestService(entries, nil, images, nil)

		_, err := svc.CreateEntry(context.Background(), CreateEntryInput{Image: []byte{1}})
		require.ErrorIs(t, err, wantErr)
		assert.False(t, created)
	})
}

func TestService_Reflect(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	img := "https://cdn.example/public/entry_1.png"

	tests := []struct {
		name       string
		entry      *domain.JournalEntry
		wantInside []string
		wantAbsent []string
	}{
		{
			name:       "text and image",
			entry:      &domain.JournalEntry{ID: id, Content: "we went hiking", ImageURL: &img},
			wantInside: []string{`The note says: "we went hiking"`, "The memory also has an image attached."},
		},
		{
			name:       "image only",
			entry:      &domain.JournalEntry{ID: id, ImageURL: &img},
			wantInside: []string{"The memory also has an image attached."},
			wantAbsent: []string{"The note says"},
		},
		{
			name:       "text only",
			entry:      &domain.JournalEntry{ID: id, Content: "quiet day"},
			wantInside: []string{`The note says: "quiet day"`},
			wantAbsent: []string{"image attached"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries := &entryRepoMock{
				GetByIDFunc: func(ctx context.Context, gotID uuid.UUID) (*domain.JournalEntry, error) {
					assert.Equal(t, id, gotID)
					return tt.entry, nil
				},
			}
			var gotPrompt string
			gen := &generatorMock{
				GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
					gotPrompt = prompt
					return "such a sweet memory", nil
				},
			}
			svc := newTestService(entries, nil, nil, gen)

			text, err := svc.Reflect(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, "such a sweet memory", text)
			assert.Contains(t, gotPrompt, "[Interface: Memory Reflection]")
			for _, want := range tt.wantInside {
				assert.Contains(t, gotPrompt, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, gotPrompt, absent)
			}
		})
	}

	t.Run("unknown entry", func(t *testing.T) {
		t.Parallel()

		entries := &entryRepoMock{
			GetByIDFunc: func(ctx context.Context, gotID uuid.UUID) (*domain.JournalEntry, error) {
				return nil, domain.ErrNotFound
			},
		}
		svc := newTestService(entries, nil, nil, &generatorMock{})

		_, err := svc.Reflect(context.Background(), id)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_CreateGratitude(t *testing.T) {
	t.Parallel()

	t.Run("stores trimmed content", func(t *testing.T) {
		t.Parallel()

		gratitudes := &gratitudeRepoMock{
			CreateFunc: func(ctx context.Context, note *domain.GratitudeNote) (*domain.GratitudeNote, error) {
				assert.Equal(t, "morning coffee", note.Content)
				return note, nil
			},
		}
		svc := newTestService(nil, gratitudes, nil, nil)

		got, err := svc.CreateGratitude(context.Background(), " morning coffee ")
		require.NoError(t, err)
		assert.Equal(t, "morning coffee", got.Content)
	})

	t.Run("empty note is rejected", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(nil, &gratitudeRepoMock{}, nil, nil)

		_, err := svc.CreateGratitude(context.Background(), "")
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}
