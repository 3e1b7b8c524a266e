package domain

import "time"

// OccurrenceKey identifies an occurrence for deduplication.
type OccurrenceKey struct {
	CourseAssignmentID string
	LessonID           string
}

// Occurrence is one dated, timed instance of a lesson being taught.
type Occurrence struct {
	ID                 string
	CourseAssignmentID string
	LessonID           string
	StartAt            time.Time
	EndAt              time.Time
	LessonNumber       int
	Origin             Origin
}

func (o Occurrence) Key() OccurrenceKey {
	return OccurrenceKey{CourseAssignmentID: o.CourseAssignmentID, LessonID: o.LessonID}
}

// Overlaps reports whether the half-open intervals [StartAt, EndAt) intersect.
func (o Occurrence) Overlaps(other Occurrence) bool {
	return o.StartAt.Before(other.EndAt) && other.StartAt.Before(o.EndAt)
}
