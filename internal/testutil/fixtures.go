package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/google/uuid"
)

// Date returns midnight UTC of the given calendar day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Assignment options
type AssignmentOption func(*domain.CourseAssignment)

func WithCourse(courseID, name string) AssignmentOption {
	return func(a *domain.CourseAssignment) {
		a.CourseID = courseID
		a.CourseName = name
	}
}

func WithStartDate(d time.Time) AssignmentOption {
	return func(a *domain.CourseAssignment) {
		a.StartDate = d
	}
}

func WithEndDate(d time.Time) AssignmentOption {
	return func(a *domain.CourseAssignment) {
		a.EndDate = &d
	}
}

func WithNames(institution, instructor string) AssignmentOption {
	return func(a *domain.CourseAssignment) {
		a.InstitutionName = institution
		a.InstructorName = instructor
	}
}

// NewTestAssignment returns an assignment of course "c-1" starting Monday
// 2024-03-04.
func NewTestAssignment(id string, opts ...AssignmentOption) *domain.CourseAssignment {
	a := &domain.CourseAssignment{
		ID:              id,
		CourseID:        "c-1",
		CourseName:      "Algebra I",
		InstitutionName: "North High",
		InstructorName:  "R. Okafor",
		StartDate:       Date(2024, time.March, 4),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewTestLessons returns n lessons of courseID with ids "<courseID>-L1".. in order.
func NewTestLessons(courseID string, n int) []domain.CurriculumLesson {
	out := make([]domain.CurriculumLesson, n)
	for i := range out {
		out[i] = domain.CurriculumLesson{
			ID:         fmt.Sprintf("%s-L%d", courseID, i+1),
			CourseID:   courseID,
			OrderIndex: i + 1,
			Title:      fmt.Sprintf("Lesson %d", i+1),
		}
	}
	return out
}

// Pattern options
type PatternOption func(*domain.RecurrencePattern)

// WithSlot activates weekday with a start-end slot ("10:00", "11:00").
func WithSlot(wd time.Weekday, start, end string) PatternOption {
	return func(p *domain.RecurrencePattern) {
		p.ActiveWeekdays[wd] = true
		p.TimeSlots[wd] = domain.TimeSlot{
			Weekday: wd,
			Start:   domain.MustParseClock(start),
			End:     domain.MustParseClock(end),
		}
	}
}

func WithAnchor(wd time.Weekday, anchor time.Time) PatternOption {
	return func(p *domain.RecurrencePattern) {
		slot := p.TimeSlots[wd]
		slot.AnchorDate = &anchor
		p.TimeSlots[wd] = slot
	}
}

func WithTarget(n int) PatternOption {
	return func(p *domain.RecurrencePattern) {
		p.TargetLessonCount = n
	}
}

// NewTestPattern returns a pattern with no weekdays unless options add them.
func NewTestPattern(assignmentID string, opts ...PatternOption) *domain.RecurrencePattern {
	p := &domain.RecurrencePattern{
		CourseAssignmentID: assignmentID,
		ActiveWeekdays:     map[time.Weekday]bool{},
		TimeSlots:          map[time.Weekday]domain.TimeSlot{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestOccurrence returns a one-hour persisted occurrence.
func NewTestOccurrence(assignmentID, lessonID string, start time.Time, number int) domain.Occurrence {
	return domain.Occurrence{
		ID:                 uuid.New().String(),
		CourseAssignmentID: assignmentID,
		LessonID:           lessonID,
		StartAt:            start,
		EndAt:              start.Add(time.Hour),
		LessonNumber:       number,
		Origin:             domain.OriginPersisted,
	}
}

func NewTestBlockedDate(d time.Time, reason string) *domain.BlockedDate {
	return &domain.BlockedDate{ID: uuid.New().String(), Date: d, Reason: reason}
}

func NewTestBlockedRange(start, end time.Time, reason string) *domain.BlockedDate {
	return &domain.BlockedDate{ID: uuid.New().String(), Date: start, EndDate: &end, Reason: reason}
}
