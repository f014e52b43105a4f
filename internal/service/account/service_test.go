package account

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wiperMock struct {
	DeleteAllFunc func(ctx context.Context) (int, error)

	calls int
}

func (m *wiperMock) DeleteAll(ctx context.Context) (int, error) {
	m.calls++
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(ctx)
	}
	return 0, nil
}

type blobStoreMock struct {
	ListFunc       func(ctx context.Context) ([]string, error)
	RemoveManyFunc func(ctx context.Context, keys []string) error

	removeCalls int
}

func (m *blobStoreMock) List(ctx context.Context) ([]string, error) {
	return m.ListFunc(ctx)
}

func (m *blobStoreMock) RemoveMany(ctx context.Context, keys []string) error {
	m.removeCalls++
	return m.RemoveManyFunc(ctx, keys)
}

func newTestService(images *blobStoreMock, repos [6]*wiperMock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, images, repos[0], repos[1], repos[2], repos[3], repos[4], repos[5])
}

func sixWipers() [6]*wiperMock {
	var repos [6]*wiperMock
	for i := range repos {
		repos[i] = &wiperMock{}
	}
	return repos
}

func TestService_Wipe(t *testing.T) {
	t.Parallel()

	t.Run("clears every table and all images", func(t *testing.T) {
		t.Parallel()

		repos := sixWipers()
		repos[0].DeleteAllFunc = func(ctx context.Context) (int, error) { return 3, nil }
		repos[4].DeleteAllFunc = func(ctx context.Context) (int, error) { return 12, nil }

		images := &blobStoreMock{
			ListFunc: func(ctx context.Context) ([]string, error) {
				return []string{"public/entry_1.png", "public/entry_2.png"}, nil
			},
			RemoveManyFunc: func(ctx context.Context, keys []string) error {
				assert.Len(t, keys, 2)
				return nil
			},
		}

		res, err := newTestService(images, repos).Wipe(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 15, res.RowsDeleted)
		assert.Equal(t, 2, res.ImagesDeleted)
		for _, r := range repos {
			assert.Equal(t, 1, r.calls)
		}
	})

	t.Run("first table failure aborts the run", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("connection reset")
		repos := sixWipers()
		repos[2].DeleteAllFunc = func(ctx context.Context) (int, error) { return 0, wantErr }

		images := &blobStoreMock{
			ListFunc: func(ctx context.Context) ([]string, error) { return nil, nil },
		}

		_, err := newTestService(images, repos).Wipe(context.Background())
		require.ErrorIs(t, err, wantErr)
		assert.Equal(t, 1, repos[0].calls)
		assert.Equal(t, 1, repos[1].calls)
		assert.Equal(t, 1, repos[2].calls)
		assert.Zero(t, repos[3].calls)
		assert.Zero(t, images.removeCalls)
	})

	t.Run("empty bucket skips removal", func(t *testing.T) {
		t.Parallel()

		images := &blobStoreMock{
			ListFunc: func(ctx context.Context) ([]string, error) { return nil, nil },
		}

		res, err := newTestService(images, sixWipers()).Wipe(context.Background())
		require.NoError(t, err)
		assert.Zero(t, res.ImagesDeleted)
		assert.Zero(t, images.removeCalls)
	})
}
