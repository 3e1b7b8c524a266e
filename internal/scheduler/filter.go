package scheduler

import (
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
)

// FilterByDay keeps occurrences whose StartAt falls on the same local
// calendar day as day. Both sides are converted to loc before comparing
// year, month and day.
func FilterByDay(occs []domain.Occurrence, day time.Time, loc *time.Location) []domain.Occurrence {
	if loc == nil {
		loc = time.Local
	}
	var out []domain.Occurrence
	for _, o := range occs {
		if domain.SameCalendarDay(o.StartAt, day, loc) {
			out = append(out, o)
		}
	}
	return out
}

// FilterByRange keeps occurrences with start <= StartAt <= end.
func FilterByRange(occs []domain.Occurrence, start, end time.Time) []domain.Occurrence {
	var out []domain.Occurrence
	for _, o := range occs {
		if o.StartAt.Before(start) || o.StartAt.After(end) {
			continue
		}
		out = append(out, o)
	}
	return out
}
