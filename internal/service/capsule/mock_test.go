package capsule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soundous/haven-backend/internal/domain"
)

type capsuleRepoMock struct {
	CreateFunc    func(ctx context.Context, c *domain.TimeCapsuleNote) (*domain.TimeCapsuleNote, error)
	GetActiveFunc func(ctx context.Context) (*domain.TimeCapsuleNote, error)
	OpenFunc      func(ctx context.Context, id uuid.UUID, now time.Time) (*domain.TimeCapsuleNote, error)
	DeleteAllFunc func(ctx context.Context) (int, error)

	mu    sync.Mutex
	calls struct {
		Create    int
		GetActive int
		Open      int
		DeleteAll int
	}
}

func (m *capsuleRepoMock) Create(ctx context.Context, c *domain.TimeCapsuleNote) (*domain.TimeCapsuleNote, error) {
	m.mu.Lock()
	m.calls.Create++
	m.mu.Unlock()
	return m.CreateFunc(ctx, c)
}

func (m *capsuleRepoMock) GetActive(ctx context.Context) (*domain.TimeCapsuleNote, error) {
	m.mu.Lock()
	m.calls.GetActive++
	m.mu.Unlock()
	return m.GetActiveFunc(ctx)
}

func (m *capsuleRepoMock) Open(ctx context.Context, id uuid.UUID, now time.Time) (*domain.TimeCapsuleNote, error) {
	m.mu.Lock()
	m.calls.Open++
	m.mu.Unlock()
	return m.OpenFunc(ctx, id, now)
}

func (m *capsuleRepoMock) DeleteAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	m.calls.DeleteAll++
	m.mu.Unlock()
	return m.DeleteAllFunc(ctx)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

type generatorMock struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *generatorMock) Generate(ctx context.Context, prompt string) (string, error) {
	return m.GenerateFunc(ctx, prompt)
}
