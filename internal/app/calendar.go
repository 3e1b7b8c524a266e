package app

import (
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
)

// CalendarRequest selects assignments and a window. An empty
// AssignmentIDs means every assignment. Day and From/To are mutually
// exclusive; with neither set the whole calendar is returned.
type CalendarRequest struct {
	AssignmentIDs []string
	Day           *time.Time
	From          *time.Time
	To            *time.Time

	// Persist writes newly generated occurrences back to storage.
	Persist bool
}

func NewCalendarRequest() CalendarRequest {
	return CalendarRequest{}
}

// Validate rejects ambiguous or inverted windows.
func (r CalendarRequest) Validate() error {
	if r.Day != nil && (r.From != nil || r.To != nil) {
		return &CalendarError{Code: CalendarErrInvalidWindow, Message: "day cannot be combined with from/to"}
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return &CalendarError{Code: CalendarErrInvalidWindow, Message: "to is before from"}
	}
	return nil
}

type CalendarResponse struct {
	Entries []domain.CalendarEntry

	// Generated counts entries in the window that exist only because the
	// generator proposed them in this request.
	Generated int
	// Persisted counts generated occurrences written during this request.
	Persisted int
	// Proposed holds the keys of generated entries that were not saved.
	Proposed map[domain.OccurrenceKey]bool
	Warnings []string
}

// GenerateRequest materializes and stores occurrences for the listed
// assignments, or for all of them when the list is empty.
type GenerateRequest struct {
	AssignmentIDs []string
}

type AssignmentGeneration struct {
	AssignmentID string
	ResumeDate   time.Time
	Generated    int
	Inserted     int
	Exhausted    bool
	DisplayOnly  bool
}

type GenerateResponse struct {
	Assignments []AssignmentGeneration
	Warnings    []string
}

// AssignmentSummary is one row of the assignment overview.
type AssignmentSummary struct {
	Assignment     domain.CourseAssignment
	UsableWeekdays []time.Weekday
	TargetLessons  int
	LessonCount    int
	ScheduledCount int
	ReportedCount  int
	Problems       []string
}

type CalendarErrorCode string

const (
	CalendarErrInvalidWindow CalendarErrorCode = "INVALID_WINDOW"
)

type CalendarError struct {
	Code    CalendarErrorCode
	Message string
}

func (e *CalendarError) Error() string {
	return string(e.Code) + ": " + e.Message
}
