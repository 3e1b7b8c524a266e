package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string { return &s }
func ptrInt(i int) *int       { return &i }
func ptrBool(b bool) *bool    { return &b }

func validMinimalPlan() *Plan {
	return &Plan{
		Courses: []CourseImport{
			{ID: "alg1", Name: "Algebra I", Lessons: []LessonImport{{Title: "Linear equations"}, {Title: "Inequalities"}}},
		},
		Assignments: []AssignmentImport{
			{
				ID: "a-1", Course: "alg1", StartDate: "2024-03-04",
				Pattern: &PatternImport{Slots: []SlotImport{{Weekday: "monday", Start: "09:00", End: "10:00"}}},
			},
		},
	}
}

func TestValidatePlan_ValidMinimal(t *testing.T) {
	assert.NoError(t, ValidatePlan(validMinimalPlan()))
}

func TestValidatePlan_TestdataFiles(t *testing.T) {
	for _, path := range []string{"testdata/plan.yaml", "testdata/plan.json"} {
		t.Run(path, func(t *testing.T) {
			plan, err := LoadPlan(path)
			require.NoError(t, err)
			assert.NoError(t, ValidatePlan(plan))
		})
	}
}

func TestValidatePlan_FieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Plan)
		wantMsg string
	}{
		{"no courses", func(p *Plan) { p.Courses = nil; p.Assignments = nil }, "courses is required"},
		{"blank course id", func(p *Plan) { p.Courses[0].ID = "  " }, "courses[0].id is required"},
		{"missing course name", func(p *Plan) { p.Courses[0].Name = "" }, "courses[0].name is required"},
		{"missing lesson title", func(p *Plan) { p.Courses[0].Lessons[1].Title = "" }, "courses[0].lessons[1].title is required"},
		{"negative order", func(p *Plan) { p.Courses[0].Lessons[0].Order = ptrInt(-1) }, "courses[0].lessons[0].order must be at least 0"},
		{"bad start date", func(p *Plan) { p.Assignments[0].StartDate = "03/04/2024" }, `assignments[0].start_date: invalid value "03/04/2024" (expected YYYY-MM-DD)`},
		{"bad end date", func(p *Plan) { p.Assignments[0].EndDate = ptrStr("2024-13-01") }, "assignments[0].end_date: invalid value"},
		{"bad weekday", func(p *Plan) { p.Assignments[0].Pattern.Slots[0].Weekday = "funday" }, `assignments[0].pattern.slots[0].weekday: invalid weekday "funday"`},
		{"bad clock", func(p *Plan) { p.Assignments[0].Pattern.Slots[0].Start = "9am" }, "assignments[0].pattern.slots[0].start: invalid value \"9am\" (expected HH:MM)"},
		{"empty slots", func(p *Plan) { p.Assignments[0].Pattern.Slots = nil }, "assignments[0].pattern.slots is required"},
		{"negative target", func(p *Plan) { p.Assignments[0].Pattern.TargetLessons = -2 }, "assignments[0].pattern.target_lessons must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validMinimalPlan()
			tt.mutate(p)
			err := ValidatePlan(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidatePlan_CrossReferences(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Plan)
		wantMsg string
	}{
		{
			"unknown course",
			func(p *Plan) { p.Assignments[0].Course = "geo" },
			`assignments[0].course: course "geo" not found`,
		},
		{
			"duplicate course",
			func(p *Plan) { p.Courses = append(p.Courses, CourseImport{ID: "alg1", Name: "Again"}) },
			`courses[1].id: duplicate course "alg1"`,
		},
		{
			"duplicate lesson id",
			func(p *Plan) { p.Courses[0].Lessons[1].ID = "alg1-L1" },
			`courses[0].lessons[1].id: duplicate lesson "alg1-L1"`,
		},
		{
			"duplicate assignment",
			func(p *Plan) { p.Assignments = append(p.Assignments, p.Assignments[0]) },
			`assignments[1].id: duplicate assignment "a-1"`,
		},
		{
			"end before start",
			func(p *Plan) { p.Assignments[0].EndDate = ptrStr("2024-03-01") },
			`assignments[0].end_date "2024-03-01" is before start_date "2024-03-04"`,
		},
		{
			"duplicate weekday slot",
			func(p *Plan) {
				p.Assignments[0].Pattern.Slots = append(p.Assignments[0].Pattern.Slots,
					SlotImport{Weekday: "Monday", Start: "13:00", End: "14:00"})
			},
			"assignments[0].pattern.slots[1].weekday: duplicate slot for Monday",
		},
		{
			"slot end before start",
			func(p *Plan) { p.Assignments[0].Pattern.Slots[0].End = "08:00" },
			"assignments[0].pattern.slots[0]: end 08:00 must be after start 09:00",
		},
		{
			"anchor on wrong weekday",
			func(p *Plan) { p.Assignments[0].Pattern.Slots[0].Anchor = ptrStr("2024-03-05") },
			"assignments[0].pattern.slots[0].anchor: 2024-03-05 falls on Tuesday, not Monday",
		},
		{
			"occurrence of unknown lesson",
			func(p *Plan) {
				p.Assignments[0].Occurrences = []OccurrenceImport{{Lesson: "bio-L1", Date: "2024-03-04", Start: "09:00", End: "10:00"}}
			},
			`assignments[0].occurrences[0].lesson: lesson "bio-L1" not in course "alg1"`,
		},
		{
			"lesson scheduled twice",
			func(p *Plan) {
				o := OccurrenceImport{Lesson: "alg1-L1", Date: "2024-03-04", Start: "09:00", End: "10:00"}
				p.Assignments[0].Occurrences = []OccurrenceImport{o, o}
			},
			`assignments[0].occurrences[1].lesson: lesson "alg1-L1" scheduled twice`,
		},
		{
			"reported unknown lesson",
			func(p *Plan) { p.Assignments[0].Reported = []string{"alg1-L9"} },
			`assignments[0].reported[0]: lesson "alg1-L9" not in course "alg1"`,
		},
		{
			"blocked range reversed",
			func(p *Plan) {
				p.BlockedDates = []BlockedDateImport{{Date: "2024-03-29", EndDate: ptrStr("2024-03-25")}}
			},
			`blocked_dates[0].end_date "2024-03-25" is before date "2024-03-29"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validMinimalPlan()
			tt.mutate(p)
			err := ValidatePlan(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidatePlan_CollectsEveryProblem(t *testing.T) {
	p := validMinimalPlan()
	p.Courses[0].Name = ""
	p.Assignments[0].Course = "geo"
	p.Assignments[0].Pattern.Slots[0].End = "08:00"

	err := ValidatePlan(p)
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "expected a joined error")
	assert.Len(t, joined.Unwrap(), 3)
}

func TestParsePlan_RejectsUnknownKeys(t *testing.T) {
	_, err := ParsePlan([]byte("courses: []\nprojects: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing plan file")
}

func TestParsePlan_EmptyDocument(t *testing.T) {
	plan, err := ParsePlan(nil)
	require.NoError(t, err)
	assert.Error(t, ValidatePlan(plan))
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := LoadPlan("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestSlotImport_ActiveDefault(t *testing.T) {
	plan, err := ParsePlan([]byte(`
courses:
  - id: c
    name: C
    lessons: [{title: One}]
assignments:
  - id: a
    course: c
    start_date: "2024-01-01"
    pattern:
      slots:
        - {weekday: monday, start: "09:00", end: "10:00"}
        - {weekday: tuesday, start: "09:00", end: "10:00", active: false}
`))
	require.NoError(t, err)
	require.NoError(t, ValidatePlan(plan))
	slots := plan.Assignments[0].Pattern.Slots
	assert.Nil(t, slots[0].Active)
	assert.Equal(t, ptrBool(false), slots[1].Active)
}
