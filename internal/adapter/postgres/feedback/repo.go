// Package feedback implements the write-only Feedback repository.
package feedback

import (
	"context"

	postgres "github.com/soundous/haven-backend/internal/adapter/postgres"
	"github.com/soundous/haven-backend/internal/domain"
)

// Repo provides feedback persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new feedback repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const insertFeedbackSQL = `
INSERT INTO feedback (id, content, ip_address, created_at)
VALUES ($1, $2, $3, $4)`

// Create stores one feedback record. The application never reads it back.
func (r *Repo) Create(ctx context.Context, fb *domain.Feedback) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, insertFeedbackSQL, fb.ID, fb.Content, fb.IPAddress, fb.CreatedAt); err != nil {
		return postgres.MapError(err, "feedback")
	}

	return nil
}

const deleteAllFeedbackSQL = `DELETE FROM feedback`

// DeleteAll removes every record. Idempotent.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteAllFeedbackSQL)
	if err != nil {
		return 0, postgres.MapError(err, "feedback")
	}

	return int(tag.RowsAffected()), nil
}
