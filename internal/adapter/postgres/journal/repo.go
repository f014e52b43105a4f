// Package journal implements the JournalEntry repository using PostgreSQL.
// Entries are write-once: they are inserted, listed, and removed only by
// the full data wipe.
package journal

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/soundous/haven-backend/internal/adapter/postgres"
	"github.com/soundous/haven-backend/internal/domain"
)

// Repo provides journal entry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new journal repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const insertEntrySQL = `
INSERT INTO journal_entries (id, content, image_url, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, content, image_url, created_at`

// Create inserts a new entry and returns the persisted row.
func (r *Repo) Create(ctx context.Context, entry *domain.JournalEntry) (*domain.JournalEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var out domain.JournalEntry
	err := q.QueryRow(ctx, insertEntrySQL,
		entry.ID, entry.Content, entry.ImageURL, entry.CreatedAt,
	).Scan(&out.ID, &out.Content, &out.ImageURL, &out.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "journal_entry")
	}

	return &out, nil
}

// List returns entries matching the filter, ordered newest-first.
// An empty table yields an empty slice, not an error.
func (r *Repo) List(ctx context.Context, f domain.JournalFilter) ([]*domain.JournalEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	builder := psql.
		Select("id", "content", "image_url", "created_at").
		From("journal_entries").
		OrderBy("created_at DESC")

	if f.CreatedSince != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *f.CreatedSince})
	}
	if f.Limit > 0 {
		builder = builder.Limit(uint64(f.Limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build journal_entries query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "journal_entry")
	}
	defer rows.Close()

	var entries []*domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(&e.ID, &e.Content, &e.ImageURL, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal_entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "journal_entry")
	}

	return entries, nil
}

const getEntrySQL = `
SELECT id, content, image_url, created_at
FROM journal_entries
WHERE id = $1`

// GetByID returns a single entry. Returns domain.ErrNotFound when absent.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var e domain.JournalEntry
	err := q.QueryRow(ctx, getEntrySQL, id).Scan(&e.ID, &e.Content, &e.ImageURL, &e.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "journal_entry")
	}

	return &e, nil
}

const deleteAllEntriesSQL = `DELETE FROM journal_entries`

// DeleteAll removes every entry. Idempotent: an empty table is not an error.
// Returns the number of deleted rows.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteAllEntriesSQL)
	if err != nil {
		return 0, postgres.MapError(err, "journal_entry")
	}

	return int(tag.RowsAffected()), nil
}
