// Package account implements whole-account operations, currently only the
// full data wipe.
package account

import (
	"context"
	"fmt"
	"log/slog"
)

// wiper removes every row of one table. Each repository implements it.
type wiper interface {
	DeleteAll(ctx context.Context) (int, error)
}

// blobStore lists and removes uploaded entry images.
type blobStore interface {
	List(ctx context.Context) ([]string, error)
	RemoveMany(ctx context.Context, keys []string) error
}

// target pairs a wiper with the name reported in logs and errors.
type target struct {
	name string
	repo wiper
}

// Service erases all stored data.
type Service struct {
	log     *slog.Logger
	targets []target
	images  blobStore
}

// NewService creates the wipe service. Repositories are wiped in the
// order given.
func NewService(logger *slog.Logger, images blobStore, journal, gratitude, capsule, summaries, chat, feedback wiper) *Service {
	return &Service{
		log:    logger.With("service", "account"),
		images: images,
		targets: []target{
			{"journal_entries", journal},
			{"gratitude_notes", gratitude},
			{"time_capsule_notes", capsule},
			{"weekly_summaries", summaries},
			{"chat_messages", chat},
			{"feedback", feedback},
		},
	}
}

// WipeResult reports what a wipe removed.
type WipeResult struct {
	RowsDeleted   int
	ImagesDeleted int
}

// Wipe erases every table and every uploaded image. Tables are cleared
// sequentially and the first failure aborts the run; a partial wipe is
// reported as an error so the client can simply retry, since every step
// is idempotent. Images go last so a storage failure never leaves rows
// referencing deleted objects.
func (s *Service) Wipe(ctx context.Context) (WipeResult, error) {
	var res WipeResult

	for _, t := range s.targets {
		n, err := t.repo.DeleteAll(ctx)
		if err != nil {
			return res, fmt.Errorf("account.Wipe: clear %s: %w", t.name, err)
		}
		res.RowsDeleted += n
	}

	keys, err := s.images.List(ctx)
	if err != nil {
		return res, fmt.Errorf("account.Wipe: list images: %w", err)
	}
	if len(keys) > 0 {
		if err := s.images.RemoveMany(ctx, keys); err != nil {
			return res, fmt.Errorf("account.Wipe: remove images: %w", err)
		}
		res.ImagesDeleted = len(keys)
	}

	s.log.Info("data wipe completed",
		slog.Int("rows_deleted", res.RowsDeleted),
		slog.Int("images_deleted", res.ImagesDeleted),
	)

	return res, nil
}
