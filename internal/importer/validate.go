package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/go-playground/validator/v10"
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday, "friday": time.Friday,
	"saturday": time.Saturday,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report yaml keys instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := parseWeekday(fl.Field().String())
		return ok
	})
	return v
}

func parseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}

// ValidatePlan checks field formats and cross references. Every problem
// found is returned, joined into one error.
func ValidatePlan(plan *Plan) error {
	var errs []error

	if err := validate.Struct(plan); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fieldError(fe))
		}
	}

	lessonsByCourse := validateCourses(plan.Courses, &errs)
	validateAssignments(plan.Assignments, lessonsByCourse, &errs)
	validateBlockedDates(plan.BlockedDates, &errs)

	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Plan.")
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Errorf("%s is required", field)
	case "datetime":
		return fmt.Errorf("%s: invalid value %q (expected %s)", field, fe.Value(), layoutHint(fe.Param()))
	case "weekday":
		return fmt.Errorf("%s: invalid weekday %q", field, fe.Value())
	case "min":
		return fmt.Errorf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Errorf("%s: failed %q check", field, fe.Tag())
	}
}

func layoutHint(layout string) string {
	if layout == domain.DateLayout {
		return "YYYY-MM-DD"
	}
	return "HH:MM"
}

// validateCourses checks id uniqueness and returns the lesson ids of each
// course for later reference checks.
func validateCourses(courses []CourseImport, errs *[]error) map[string]map[string]bool {
	lessonsByCourse := make(map[string]map[string]bool, len(courses))
	seenLesson := make(map[string]string)

	for i, c := range courses {
		prefix := fmt.Sprintf("courses[%d]", i)
		if c.ID == "" {
			continue
		}
		if _, dup := lessonsByCourse[c.ID]; dup {
			*errs = append(*errs, fmt.Errorf("%s.id: duplicate course %q", prefix, c.ID))
			continue
		}
		ids := make(map[string]bool, len(c.Lessons))
		for j, l := range c.Lessons {
			id := lessonID(c.ID, j, l)
			if owner, dup := seenLesson[id]; dup {
				*errs = append(*errs, fmt.Errorf("%s.lessons[%d].id: duplicate lesson %q (already in course %q)", prefix, j, id, owner))
				continue
			}
			seenLesson[id] = c.ID
			ids[id] = true
		}
		lessonsByCourse[c.ID] = ids
	}
	return lessonsByCourse
}

func validateAssignments(assignments []AssignmentImport, lessonsByCourse map[string]map[string]bool, errs *[]error) {
	seen := make(map[string]bool, len(assignments))

	for i, a := range assignments {
		prefix := fmt.Sprintf("assignments[%d]", i)

		if a.ID != "" {
			if seen[a.ID] {
				*errs = append(*errs, fmt.Errorf("%s.id: duplicate assignment %q", prefix, a.ID))
			}
			seen[a.ID] = true
		}

		lessons, courseOK := lessonsByCourse[a.Course]
		if a.Course != "" && !courseOK {
			*errs = append(*errs, fmt.Errorf("%s.course: course %q not found", prefix, a.Course))
		}

		if a.EndDate != nil {
			start, startErr := time.Parse(domain.DateLayout, a.StartDate)
			end, endErr := time.Parse(domain.DateLayout, *a.EndDate)
			if startErr == nil && endErr == nil && end.Before(start) {
				*errs = append(*errs, fmt.Errorf("%s.end_date %q is before start_date %q", prefix, *a.EndDate, a.StartDate))
			}
		}

		if a.Pattern != nil {
			validateSlots(prefix+".pattern", a.Pattern.Slots, errs)
		}

		scheduled := make(map[string]bool, len(a.Occurrences))
		for j, o := range a.Occurrences {
			op := fmt.Sprintf("%s.occurrences[%d]", prefix, j)
			if courseOK && o.Lesson != "" && !lessons[o.Lesson] {
				*errs = append(*errs, fmt.Errorf("%s.lesson: lesson %q not in course %q", op, o.Lesson, a.Course))
			}
			if scheduled[o.Lesson] {
				*errs = append(*errs, fmt.Errorf("%s.lesson: lesson %q scheduled twice", op, o.Lesson))
			}
			scheduled[o.Lesson] = true
			if !clockBefore(o.Start, o.End) {
				*errs = append(*errs, fmt.Errorf("%s: end %s must be after start %s", op, o.End, o.Start))
			}
		}

		for j, id := range a.Reported {
			if courseOK && !lessons[id] {
				*errs = append(*errs, fmt.Errorf("%s.reported[%d]: lesson %q not in course %q", prefix, j, id, a.Course))
			}
		}
	}
}

func validateSlots(prefix string, slots []SlotImport, errs *[]error) {
	seen := make(map[time.Weekday]bool, len(slots))
	for i, s := range slots {
		sp := fmt.Sprintf("%s.slots[%d]", prefix, i)
		wd, ok := parseWeekday(s.Weekday)
		if !ok {
			continue
		}
		if seen[wd] {
			*errs = append(*errs, fmt.Errorf("%s.weekday: duplicate slot for %s", sp, wd))
		}
		seen[wd] = true

		if !clockBefore(s.Start, s.End) {
			*errs = append(*errs, fmt.Errorf("%s: end %s must be after start %s", sp, s.End, s.Start))
		}
		if s.Anchor != nil {
			if anchor, err := time.Parse(domain.DateLayout, *s.Anchor); err == nil && anchor.Weekday() != wd {
				*errs = append(*errs, fmt.Errorf("%s.anchor: %s falls on %s, not %s", sp, *s.Anchor, anchor.Weekday(), wd))
			}
		}
	}
}

func validateBlockedDates(blocked []BlockedDateImport, errs *[]error) {
	for i, b := range blocked {
		if b.EndDate == nil {
			continue
		}
		start, startErr := time.Parse(domain.DateLayout, b.Date)
		end, endErr := time.Parse(domain.DateLayout, *b.EndDate)
		if startErr == nil && endErr == nil && end.Before(start) {
			*errs = append(*errs, fmt.Errorf("blocked_dates[%d].end_date %q is before date %q", i, *b.EndDate, b.Date))
		}
	}
}

// clockBefore reports whether start < end. Unparseable values are left to
// the struct tag checks and reported as ordered.
func clockBefore(start, end string) bool {
	s, err1 := domain.ParseClock(start)
	e, err2 := domain.ParseClock(end)
	if err1 != nil || err2 != nil {
		return true
	}
	return s.Before(e)
}
