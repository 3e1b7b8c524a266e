package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOccurrence_Overlaps(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2024, 3, 4, h, m, 0, 0, time.UTC) }
	base := Occurrence{StartAt: at(10, 0), EndAt: at(11, 0)}

	assert.True(t, base.Overlaps(Occurrence{StartAt: at(10, 30), EndAt: at(11, 30)}))
	assert.True(t, base.Overlaps(Occurrence{StartAt: at(9, 0), EndAt: at(12, 0)}))
	assert.False(t, base.Overlaps(Occurrence{StartAt: at(11, 0), EndAt: at(12, 0)}), "touching intervals are half-open")
	assert.False(t, base.Overlaps(Occurrence{StartAt: at(9, 0), EndAt: at(10, 0)}))
}

func TestBlockedDate_Covers(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	end := day(8)
	single := BlockedDate{Date: day(4)}
	rng := BlockedDate{Date: day(6), EndDate: &end}

	assert.True(t, single.Covers(day(4)))
	assert.True(t, single.Covers(time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC)))
	assert.False(t, single.Covers(day(5)))

	assert.False(t, rng.Covers(day(5)))
	assert.True(t, rng.Covers(day(6)), "range start is inclusive")
	assert.True(t, rng.Covers(day(7)))
	assert.True(t, rng.Covers(day(8)), "range end is inclusive")
	assert.False(t, rng.Covers(day(9)))
}

func TestBlockedDate_Covers_ComparesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	b := BlockedDate{Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)}

	// Local midnight of the 5th in UTC+9 is the 4th in UTC.
	assert.True(t, b.Covers(time.Date(2024, 3, 5, 0, 0, 0, 0, loc)))
}

func TestBlockedDate_Validate(t *testing.T) {
	start := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)

	assert.NoError(t, BlockedDate{Date: start}.Validate())
	assert.Error(t, BlockedDate{}.Validate())
	assert.Error(t, BlockedDate{Date: start, EndDate: &before}.Validate())
}

func TestNewCalendarEntry_Placeholders(t *testing.T) {
	occ := Occurrence{ID: "o1", LessonID: "l1"}

	e := NewCalendarEntry(occ, nil, nil)
	assert.Equal(t, Placeholder, e.CourseName)
	assert.Equal(t, Placeholder, e.InstitutionName)
	assert.Equal(t, Placeholder, e.InstructorName)
	assert.Equal(t, Placeholder, e.LessonTitle)
	assert.Equal(t, "o1", e.ID)

	e = NewCalendarEntry(occ,
		&CourseAssignment{CourseName: "Algebra", InstructorName: "  "},
		&CurriculumLesson{Title: "Intro"})
	assert.Equal(t, "Algebra", e.CourseName)
	assert.Equal(t, Placeholder, e.InstitutionName)
	assert.Equal(t, Placeholder, e.InstructorName, "blank names fall back to the placeholder")
	assert.Equal(t, "Intro", e.LessonTitle)
}
