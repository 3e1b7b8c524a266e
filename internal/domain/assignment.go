package domain

import "time"

// CourseAssignment is a course offered at an institution by an instructor.
type CourseAssignment struct {
	ID              string
	CourseID        string
	CourseName      string
	InstitutionName string
	InstructorName  string
	StartDate       time.Time
	EndDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CalendarEntry is an occurrence denormalized for calendar consumers.
type CalendarEntry struct {
	Occurrence
	CourseName      string
	InstitutionName string
	InstructorName  string
	LessonTitle     string
}

// NewCalendarEntry fills names from a and lesson, falling back to
// Placeholder for anything missing. Either argument may be nil.
func NewCalendarEntry(o Occurrence, a *CourseAssignment, lesson *CurriculumLesson) CalendarEntry {
	e := CalendarEntry{Occurrence: o}
	var course, institution, instructor, title string
	if a != nil {
		course, institution, instructor = a.CourseName, a.InstitutionName, a.InstructorName
	}
	if lesson != nil {
		title = lesson.Title
	}
	e.CourseName = CoalesceStr(course, Placeholder)
	e.InstitutionName = CoalesceStr(institution, Placeholder)
	e.InstructorName = CoalesceStr(instructor, Placeholder)
	e.LessonTitle = CoalesceStr(title, Placeholder)
	return e
}
