// Package capsule implements the TimeCapsuleNote repository using PostgreSQL.
// The table holds at most one row; the lifecycle service enforces that by
// running DeleteAll and Create inside one transaction.
package capsule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/soundous/haven-backend/internal/adapter/postgres"
	"github.com/soundous/haven-backend/internal/domain"
)

// Repo provides time capsule persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new capsule repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const insertCapsuleSQL = `
INSERT INTO time_capsule_notes (id, content, open_at, opened, created_at)
VALUES ($1, $2, $3, false, $4)
RETURNING id, content, open_at, opened, created_at`

// Create inserts a new sealed capsule and returns the persisted row.
func (r *Repo) Create(ctx context.Context, c *domain.TimeCapsuleNote) (*domain.TimeCapsuleNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var out domain.TimeCapsuleNote
	err := q.QueryRow(ctx, insertCapsuleSQL,
		c.ID, c.Content, c.OpenAt, c.CreatedAt,
	).Scan(&out.ID, &out.Content, &out.OpenAt, &out.Opened, &out.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "time_capsule")
	}

	return &out, nil
}

const getActiveCapsuleSQL = `
SELECT id, content, open_at, opened, created_at
FROM time_capsule_notes
LIMIT 1`

// GetActive returns the single capsule row, or (nil, nil) when no capsule
// exists. Zero rows is a normal outcome, distinct from a transport error.
func (r *Repo) GetActive(ctx context.Context) (*domain.TimeCapsuleNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var c domain.TimeCapsuleNote
	err := q.QueryRow(ctx, getActiveCapsuleSQL).
		Scan(&c.ID, &c.Content, &c.OpenAt, &c.Opened, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.MapError(err, "time_capsule")
	}

	return &c, nil
}

const openCapsuleSQL = `
UPDATE time_capsule_notes
SET opened = true
WHERE id = $1 AND opened = false AND open_at <= $2
RETURNING id, content, open_at, opened, created_at`

// Open marks the capsule as opened, conditioned on it being exactly in the
// unlockable state at the given time. The condition makes rapid duplicate
// open calls a no-op at the database level: zero rows are affected when the
// id is unknown, the capsule is still sealed, or it was already opened.
// Returns domain.ErrNotFound in all zero-row cases; the caller disambiguates.
func (r *Repo) Open(ctx context.Context, id uuid.UUID, now time.Time) (*domain.TimeCapsuleNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var c domain.TimeCapsuleNote
	err := q.QueryRow(ctx, openCapsuleSQL, id, now).
		Scan(&c.ID, &c.Content, &c.OpenAt, &c.Opened, &c.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "time_capsule")
	}

	return &c, nil
}

const deleteAllCapsulesSQL = `DELETE FROM time_capsule_notes`

// DeleteAll removes the capsule row regardless of its state ("abandon" is a
// valid path for a still-sealed capsule). Idempotent.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteAllCapsulesSQL)
	if err != nil {
		return 0, postgres.MapError(err, "time_capsule")
	}

	return int(tag.RowsAffected()), nil
}
