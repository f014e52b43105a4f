package domain

import (
	"time"

	"github.com/google/uuid"
)

// CapsuleState is the lifecycle state of the single time capsule.
// Sealed and Unlockable are distinguished purely by wall-clock time;
// only Opened is a stored flag.
type CapsuleState string

const (
	CapsuleSealed     CapsuleState = "sealed"
	CapsuleUnlockable CapsuleState = "unlockable"
	CapsuleOpened     CapsuleState = "opened"
)

// TimeCapsuleNote is a message sealed for future delivery. At most one
// capsule row exists in the system at any time; creating a new one removes
// its predecessor.
type TimeCapsuleNote struct {
	ID        uuid.UUID
	Content   string
	OpenAt    time.Time
	Opened    bool
	CreatedAt time.Time
}

// Unlockable reports whether the capsule may be opened at the given time.
// It is a derived predicate: no state changes from evaluating it, and two
// reads at different wall-clock times may disagree.
func (c *TimeCapsuleNote) Unlockable(now time.Time) bool {
	return !c.Opened && !now.Before(c.OpenAt)
}

// State derives the lifecycle state at the given time.
func (c *TimeCapsuleNote) State(now time.Time) CapsuleState {
	switch {
	case c.Opened:
		return CapsuleOpened
	case c.Unlockable(now):
		return CapsuleUnlockable
	default:
		return CapsuleSealed
	}
}

// ValidateOpenAt checks the minimum-delay rule for a new capsule: the open
// date must be no earlier than the day after creation. Comparison is by
// calendar day in UTC, so sealing at 23:59 for tomorrow is still accepted.
func ValidateOpenAt(now, openAt time.Time) error {
	today := now.UTC().Truncate(24 * time.Hour)
	openDay := openAt.UTC().Truncate(24 * time.Hour)
	if !openDay.After(today) {
		return NewValidationError("open_at", "must be at least one day in the future")
	}
	return nil
}
