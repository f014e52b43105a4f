package domain

import (
	"time"

	"github.com/google/uuid"
)

// SummaryCooldown is the rolling window after which a new weekly summary
// may be generated.
const SummaryCooldown = 7 * 24 * time.Hour

// SummaryRecord is one row of the append-only summary generation log.
type SummaryRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// SummaryEligibility is the result of a cooldown check.
type SummaryEligibility struct {
	CanGenerate   bool
	DaysRemaining int
}

// CheckSummaryEligibility applies the 7-day cooldown to the most recent
// generation timestamp. A nil last timestamp means no summary was ever
// generated and the caller is eligible immediately. DaysRemaining is a
// whole-day count rounded up: one millisecond into day six still reports
// one day remaining.
func CheckSummaryEligibility(now time.Time, last *time.Time) SummaryEligibility {
	if last == nil {
		return SummaryEligibility{CanGenerate: true}
	}

	elapsed := now.Sub(*last)
	if elapsed >= SummaryCooldown {
		return SummaryEligibility{CanGenerate: true}
	}

	remaining := SummaryCooldown - elapsed
	days := int((remaining + 24*time.Hour - 1) / (24 * time.Hour))
	return SummaryEligibility{CanGenerate: false, DaysRemaining: days}
}
