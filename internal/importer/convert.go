package importer

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/google/uuid"
)

// Bundle is a converted plan ready for persistence.
type Bundle struct {
	Lessons      []domain.CurriculumLesson
	Assignments  []*domain.CourseAssignment
	Patterns     []*domain.RecurrencePattern
	Occurrences  []domain.Occurrence
	Reports      []Report
	BlockedDates []*domain.BlockedDate
}

// Report marks a lesson of an assignment as already taught.
type Report struct {
	AssignmentID string
	LessonID     string
}

// Convert turns a validated plan into domain objects. Wall-clock times in
// the plan are read in loc. Call ValidatePlan first; Convert assumes the
// plan is valid.
func Convert(plan *Plan, loc *time.Location, now time.Time) (*Bundle, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.UTC()
	b := &Bundle{}

	courseNames := make(map[string]string, len(plan.Courses))
	for _, c := range plan.Courses {
		courseNames[c.ID] = c.Name
		for i, l := range c.Lessons {
			order := i + 1
			if l.Order != nil {
				order = *l.Order
			}
			b.Lessons = append(b.Lessons, domain.CurriculumLesson{
				ID:         lessonID(c.ID, i, l),
				CourseID:   c.ID,
				OrderIndex: order,
				Title:      l.Title,
			})
		}
	}

	for _, a := range plan.Assignments {
		start, err := time.Parse(domain.DateLayout, a.StartDate)
		if err != nil {
			return nil, fmt.Errorf("assignment %s: parsing start_date: %w", a.ID, err)
		}
		end, err := parseOptionalDate(a.EndDate)
		if err != nil {
			return nil, fmt.Errorf("assignment %s: parsing end_date: %w", a.ID, err)
		}
		b.Assignments = append(b.Assignments, &domain.CourseAssignment{
			ID:              a.ID,
			CourseID:        a.Course,
			CourseName:      courseNames[a.Course],
			InstitutionName: a.Institution,
			InstructorName:  a.Instructor,
			StartDate:       start,
			EndDate:         end,
			CreatedAt:       now,
			UpdatedAt:       now,
		})

		if a.Pattern != nil {
			p, err := convertPattern(a.ID, a.Pattern)
			if err != nil {
				return nil, fmt.Errorf("assignment %s: %w", a.ID, err)
			}
			b.Patterns = append(b.Patterns, p)
		}

		occs, err := convertOccurrences(a.ID, a.Occurrences, loc)
		if err != nil {
			return nil, fmt.Errorf("assignment %s: %w", a.ID, err)
		}
		b.Occurrences = append(b.Occurrences, occs...)

		for _, id := range a.Reported {
			b.Reports = append(b.Reports, Report{AssignmentID: a.ID, LessonID: id})
		}
	}

	for _, bd := range plan.BlockedDates {
		date, err := time.Parse(domain.DateLayout, bd.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing blocked date: %w", err)
		}
		endDate, err := parseOptionalDate(bd.EndDate)
		if err != nil {
			return nil, fmt.Errorf("parsing blocked end_date: %w", err)
		}
		b.BlockedDates = append(b.BlockedDates, &domain.BlockedDate{
			ID:      uuid.New().String(),
			Date:    date,
			EndDate: endDate,
			Reason:  bd.Reason,
		})
	}

	return b, nil
}

func convertPattern(assignmentID string, pi *PatternImport) (*domain.RecurrencePattern, error) {
	p := &domain.RecurrencePattern{
		CourseAssignmentID: assignmentID,
		ActiveWeekdays:     make(map[time.Weekday]bool, len(pi.Slots)),
		TimeSlots:          make(map[time.Weekday]domain.TimeSlot, len(pi.Slots)),
		TargetLessonCount:  pi.TargetLessons,
	}
	for _, s := range pi.Slots {
		wd, ok := parseWeekday(s.Weekday)
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q", s.Weekday)
		}
		start, err := domain.ParseClock(s.Start)
		if err != nil {
			return nil, err
		}
		end, err := domain.ParseClock(s.End)
		if err != nil {
			return nil, err
		}
		anchor, err := parseOptionalDate(s.Anchor)
		if err != nil {
			return nil, fmt.Errorf("parsing anchor: %w", err)
		}
		p.TimeSlots[wd] = domain.TimeSlot{Weekday: wd, Start: start, End: end, AnchorDate: anchor}
		p.ActiveWeekdays[wd] = s.Active == nil || *s.Active
	}
	return p, nil
}

// convertOccurrences numbers carried-over occurrences chronologically.
func convertOccurrences(assignmentID string, in []OccurrenceImport, loc *time.Location) ([]domain.Occurrence, error) {
	out := make([]domain.Occurrence, 0, len(in))
	for _, o := range in {
		day, err := domain.ParseDate(o.Date, loc)
		if err != nil {
			return nil, err
		}
		start, err := domain.ParseClock(o.Start)
		if err != nil {
			return nil, err
		}
		end, err := domain.ParseClock(o.End)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Occurrence{
			ID:                 uuid.New().String(),
			CourseAssignmentID: assignmentID,
			LessonID:           o.Lesson,
			StartAt:            start.On(day, loc),
			EndAt:              end.On(day, loc),
			Origin:             domain.OriginPersisted,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	for i := range out {
		out[i].LessonNumber = i + 1
	}
	return out, nil
}

func lessonID(courseID string, idx int, l LessonImport) string {
	if l.ID != "" {
		return l.ID
	}
	return fmt.Sprintf("%s-L%d", courseID, idx+1)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(domain.DateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
