package domain

import (
	"time"

	"github.com/google/uuid"
)

// JournalEntry is a single journal note, optionally carrying an image.
// Entries are immutable after creation; they are only removed by a full wipe.
type JournalEntry struct {
	ID        uuid.UUID
	Content   string
	ImageURL  *string
	CreatedAt time.Time
}

// HasImage reports whether an image is attached to the entry.
func (e *JournalEntry) HasImage() bool {
	return e.ImageURL != nil && *e.ImageURL != ""
}

// JournalFilter defines parameters for selecting journal entries.
// The zero value selects everything, newest first.
type JournalFilter struct {
	// CreatedSince keeps only entries with created_at >= the given time.
	CreatedSince *time.Time

	// Limit caps the number of returned entries. 0 means no limit.
	Limit int
}

// GratitudeNote is a short immutable note of gratitude, listed newest-first.
type GratitudeNote struct {
	ID        uuid.UUID
	Content   string
	CreatedAt time.Time
}

// Feedback is a write-only user feedback record. IPAddress is best-effort
// and non-authoritative.
type Feedback struct {
	ID        uuid.UUID
	Content   string
	IPAddress *string
	CreatedAt time.Time
}
