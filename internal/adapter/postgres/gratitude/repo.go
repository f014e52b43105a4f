// Package gratitude implements the GratitudeNote repository using PostgreSQL.
package gratitude

import (
	"context"
	"fmt"

	postgres "github.com/soundous/haven-backend/internal/adapter/postgres"
	"github.com/soundous/haven-backend/internal/domain"
)

// Repo provides gratitude note persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new gratitude repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const insertNoteSQL = `
INSERT INTO gratitude_notes (id, content, created_at)
VALUES ($1, $2, $3)
RETURNING id, content, created_at`

// Create inserts a new note and returns the persisted row.
func (r *Repo) Create(ctx context.Context, note *domain.GratitudeNote) (*domain.GratitudeNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var out domain.GratitudeNote
	err := q.QueryRow(ctx, insertNoteSQL, note.ID, note.Content, note.CreatedAt).
		Scan(&out.ID, &out.Content, &out.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "gratitude_note")
	}

	return &out, nil
}

const listNotesSQL = `
SELECT id, content, created_at
FROM gratitude_notes
ORDER BY created_at DESC`

// List returns all notes, newest first.
func (r *Repo) List(ctx context.Context) ([]*domain.GratitudeNote, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listNotesSQL)
	if err != nil {
		return nil, postgres.MapError(err, "gratitude_note")
	}
	defer rows.Close()

	var notes []*domain.GratitudeNote
	for rows.Next() {
		var n domain.GratitudeNote
		if err := rows.Scan(&n.ID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan gratitude_note: %w", err)
		}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "gratitude_note")
	}

	return notes, nil
}

const deleteAllNotesSQL = `DELETE FROM gratitude_notes`

// DeleteAll removes every note. Idempotent.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteAllNotesSQL)
	if err != nil {
		return 0, postgres.MapError(err, "gratitude_note")
	}

	return int(tag.RowsAffected()), nil
}
