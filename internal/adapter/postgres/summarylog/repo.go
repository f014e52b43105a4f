// Package summarylog implements the append-only summary generation log.
// One row per successful weekly summary; rows are never updated and are
// only removed by the full data wipe.
package summarylog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	postgres "github.com/soundous/haven-backend/internal/adapter/postgres"
	"github.com/soundous/haven-backend/internal/domain"
)

// Repo provides summary log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new summary log repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const insertSummarySQL = `
INSERT INTO weekly_summaries (id, created_at)
VALUES ($1, $2)`

// Create appends a generation record. No dedup: two appends within the
// cooldown window both land and the later one becomes the new anchor.
func (r *Repo) Create(ctx context.Context, rec *domain.SummaryRecord) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	if _, err := q.Exec(ctx, insertSummarySQL, rec.ID, rec.CreatedAt); err != nil {
		return postgres.MapError(err, "weekly_summary")
	}

	return nil
}

const lastSummarySQL = `
SELECT created_at
FROM weekly_summaries
ORDER BY created_at DESC
LIMIT 1`

// LastGeneratedAt returns the timestamp of the most recent generation, or
// (nil, nil) when no summary was ever generated.
func (r *Repo) LastGeneratedAt(ctx context.Context) (*time.Time, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var ts time.Time
	if err := q.QueryRow(ctx, lastSummarySQL).Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.MapError(err, "weekly_summary")
	}

	return &ts, nil
}

const deleteAllSummariesSQL = `DELETE FROM weekly_summaries`

// DeleteAll removes the whole log. Idempotent.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteAllSummariesSQL)
	if err != nil {
		return 0, postgres.MapError(err, "weekly_summary")
	}

	return int(tag.RowsAffected()), nil
}
