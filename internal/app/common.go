package app

import "time"

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Courses      int
	Lessons      int
	Assignments  int
	Patterns     int
	Occurrences  int
	BlockedDates int
}

// ReportRequest records that a lesson was taught.
type ReportRequest struct {
	AssignmentID string
	LessonID     string
	ReportedAt   *time.Time
}

// RescheduleRequest moves an occurrence. A zero Duration keeps the
// current length.
type RescheduleRequest struct {
	OccurrenceID string
	StartAt      time.Time
	Duration     time.Duration
}
