package domain

import (
	"fmt"
	"time"
)

// BlockedDate is a calendar day or inclusive range on which no lesson may
// be scheduled.
type BlockedDate struct {
	ID      string
	Date    time.Time
	EndDate *time.Time // nil for a single day
	Reason  string
}

// Covers reports whether day falls on the blocked date or inside the range.
// Only calendar components are compared; day is read in its own location.
func (b BlockedDate) Covers(day time.Time) bool {
	k := dayKey(day)
	start := dayKey(b.Date)
	if b.EndDate == nil {
		return k == start
	}
	return start <= k && k <= dayKey(*b.EndDate)
}

// IsRange reports whether the entry is a range rather than a single day.
func (b BlockedDate) IsRange() bool {
	return b.EndDate != nil
}

// Validate checks that a range does not end before it starts.
func (b BlockedDate) Validate() error {
	if b.Date.IsZero() {
		return fmt.Errorf("blocked date is required")
	}
	if b.EndDate != nil && dayKey(*b.EndDate) < dayKey(b.Date) {
		return fmt.Errorf("blocked range end %s is before start %s",
			b.EndDate.Format(DateLayout), b.Date.Format(DateLayout))
	}
	return nil
}
