// Package chat implements the ChatMessage repository using PostgreSQL.
// Messages are append-only and strictly ordered by creation time.
package chat

import (
	"context"
	"fmt"

	postgres "github.com/soundous/haven-backend/internal/adapter/postgres"
	"github.com/soundous/haven-backend/internal/domain"
)

// Repo provides chat message persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new chat repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const insertMessageSQL = `
INSERT INTO chat_messages (id, sender, text, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, sender, text, created_at`

// Create appends one conversation turn and returns the persisted row.
func (r *Repo) Create(ctx context.Context, msg *domain.ChatMessage) (*domain.ChatMessage, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var out domain.ChatMessage
	err := q.QueryRow(ctx, insertMessageSQL,
		msg.ID, string(msg.Sender), msg.Content, msg.CreatedAt,
	).Scan(&out.ID, &out.Sender, &out.Content, &out.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "chat_message")
	}

	return &out, nil
}

const listMessagesSQL = `
SELECT id, sender, text, created_at
FROM chat_messages
ORDER BY created_at ASC`

// List returns the full conversation in creation order. An empty history
// yields an empty slice, not an error.
func (r *Repo) List(ctx context.Context) ([]*domain.ChatMessage, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listMessagesSQL)
	if err != nil {
		return nil, postgres.MapError(err, "chat_message")
	}
	defer rows.Close()

	var msgs []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat_message: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "chat_message")
	}

	return msgs, nil
}

const deleteAllMessagesSQL = `DELETE FROM chat_messages`

// DeleteAll removes the whole conversation. Idempotent.
func (r *Repo) DeleteAll(ctx context.Context) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, deleteAllMessagesSQL)
	if err != nil {
		return 0, postgres.MapError(err, "chat_message")
	}

	return int(tag.RowsAffected()), nil
}
