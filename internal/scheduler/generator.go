package scheduler

import (
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/google/uuid"
)

// MaxSearchDays bounds how far past the resume date the day cursor may move
// before generation gives up on a pattern that cannot be satisfied.
const MaxSearchDays = 366

// occurrenceNamespace seeds deterministic ids for generated occurrences so
// that regenerating the same lesson always yields the same id.
var occurrenceNamespace = uuid.MustParse("6f1c9a52-3f0e-4d7b-9a51-2b8f0c1e7d44")

// GenerateInput is everything the generator needs, already fetched.
type GenerateInput struct {
	Pattern  *domain.RecurrencePattern
	Lessons  []domain.CurriculumLesson
	Existing []domain.Occurrence
	Reported map[string]bool

	// Blocked reports whether a local calendar day is a blackout day.
	// A nil func blocks nothing.
	Blocked func(day time.Time) bool

	// CourseStart, CourseEnd and slot anchors are calendar dates; only
	// their year, month and day are read.
	CourseStart time.Time
	CourseEnd   *time.Time

	// Location is the local calendar convention. Defaults to time.Local.
	Location *time.Location
}

// GenerateResult holds the new occurrences in chronological order.
type GenerateResult struct {
	Occurrences []domain.Occurrence
	ResumeDate  time.Time

	// Exhausted is set when the search hit MaxSearchDays before every
	// unscheduled lesson found a slot.
	Exhausted bool
}

// GenerateOccurrenceID returns the deterministic id for an assignment's lesson.
func GenerateOccurrenceID(assignmentID, lessonID string) string {
	return uuid.NewSHA1(occurrenceNamespace, []byte(assignmentID+"/"+lessonID)).String()
}

// Generate materializes occurrences for lessons that are neither scheduled
// nor reported, walking forward one local calendar day at a time from the
// resume date.
func Generate(in GenerateInput) GenerateResult {
	var res GenerateResult
	if in.Pattern.IsEmpty() || len(in.Lessons) == 0 {
		return res
	}
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}

	pending := unscheduledLessons(in.Lessons, in.Existing, in.Reported)
	if len(pending) == 0 {
		return res
	}

	target := in.Pattern.TargetLessonCount
	count := len(in.Existing)
	if target > 0 && count >= target {
		return res
	}

	assignmentID := in.Pattern.CourseAssignmentID
	taken := sameAssignment(in.Existing, assignmentID)
	seenWeekday := make(map[time.Weekday]bool)
	for _, o := range taken {
		seenWeekday[o.StartAt.In(loc).Weekday()] = true
	}

	resume := resumeDate(in.Existing, in.CourseStart, loc)
	res.ResumeDate = localMidnight(resume, loc)
	limit := resume.AddDate(0, 0, MaxSearchDays)

	var courseEnd time.Time
	if in.CourseEnd != nil {
		courseEnd = civilDate(*in.CourseEnd)
	}

	next := 0
	for date := resume; next < len(pending); date = date.AddDate(0, 0, 1) {
		if in.CourseEnd != nil && date.After(courseEnd) {
			break
		}
		if date.After(limit) {
			res.Exhausted = true
			break
		}

		slot, ok := in.Pattern.SlotFor(date.Weekday())
		if !ok {
			continue
		}
		if slot.AnchorDate != nil && !seenWeekday[date.Weekday()] &&
			date.Before(civilDate(*slot.AnchorDate)) {
			continue
		}
		day := localMidnight(date, loc)
		if in.Blocked != nil && in.Blocked(day) {
			continue
		}

		lesson := pending[next]
		occ := domain.Occurrence{
			ID:                 GenerateOccurrenceID(assignmentID, lesson.ID),
			CourseAssignmentID: assignmentID,
			LessonID:           lesson.ID,
			StartAt:            slot.Start.On(day, loc),
			EndAt:              slot.End.On(day, loc),
			LessonNumber:       count + 1,
			Origin:             domain.OriginGenerated,
		}
		if overlapsAny(occ, taken) {
			continue
		}

		res.Occurrences = append(res.Occurrences, occ)
		taken = append(taken, occ)
		seenWeekday[date.Weekday()] = true
		next++
		count++
		if target > 0 && count >= target {
			break
		}
	}

	return res
}

// unscheduledLessons returns lessons in curriculum order that have neither
// an existing occurrence nor a report.
func unscheduledLessons(lessons []domain.CurriculumLesson, existing []domain.Occurrence, reported map[string]bool) []domain.CurriculumLesson {
	scheduled := make(map[string]bool, len(existing))
	for _, o := range existing {
		scheduled[o.LessonID] = true
	}

	ordered := make([]domain.CurriculumLesson, len(lessons))
	copy(ordered, lessons)
	domain.SortLessons(ordered)

	var out []domain.CurriculumLesson
	for _, l := range ordered {
		if scheduled[l.ID] || reported[l.ID] {
			continue
		}
		out = append(out, l)
	}
	return out
}

// resumeDate is the calendar day after the latest existing end in loc, or
// the course start.
func resumeDate(existing []domain.Occurrence, courseStart time.Time, loc *time.Location) time.Time {
	if len(existing) == 0 {
		return civilDate(courseStart)
	}
	latest := existing[0].EndAt
	for _, o := range existing[1:] {
		if o.EndAt.After(latest) {
			latest = o.EndAt
		}
	}
	return civilDate(latest.In(loc)).AddDate(0, 0, 1)
}

// civilDate holds the calendar components t carries in its own location as
// UTC midnight. Stepping and comparing civil dates never crosses a DST
// transition.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// localMidnight is the first instant of a civil date in loc. When midnight
// falls in a DST gap that is the first hour that exists.
func localMidnight(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for i := 0; i < 3 && civilDate(t.In(loc)).Before(date); i++ {
		t = t.Add(time.Hour)
	}
	return t
}

func sameAssignment(occs []domain.Occurrence, assignmentID string) []domain.Occurrence {
	out := make([]domain.Occurrence, 0, len(occs))
	for _, o := range occs {
		if o.CourseAssignmentID == assignmentID {
			out = append(out, o)
		}
	}
	return out
}

func overlapsAny(occ domain.Occurrence, others []domain.Occurrence) bool {
	for _, o := range others {
		if occ.Overlaps(o) {
			return true
		}
	}
	return false
}
