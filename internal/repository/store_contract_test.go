package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/alexanderramin/lessonplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend opens an empty Store and its TxRunner.
type backend func(t *testing.T) (Store, TxRunner)

// runStoreContract exercises every repository against one backend. Both the
// SQLite and the PostgreSQL implementations must pass it unchanged.
func runStoreContract(t *testing.T, open backend) {
	t.Run("assignments", func(t *testing.T) { testAssignments(t, open) })
	t.Run("lessons", func(t *testing.T) { testLessons(t, open) })
	t.Run("patterns", func(t *testing.T) { testPatterns(t, open) })
	t.Run("occurrences", func(t *testing.T) { testOccurrences(t, open) })
	t.Run("reports", func(t *testing.T) { testReports(t, open) })
	t.Run("blocked dates", func(t *testing.T) { testBlockedDates(t, open) })
	t.Run("transactions", func(t *testing.T) { testTransactions(t, open) })
}

func seedAssignment(t *testing.T, s Store, id string, opts ...testutil.AssignmentOption) *domain.CourseAssignment {
	t.Helper()
	a := testutil.NewTestAssignment(id, opts...)
	require.NoError(t, s.Assignments.Create(context.Background(), a))
	return a
}

func testAssignments(t *testing.T, open backend) {
	s, _ := open(t)
	ctx := context.Background()

	a := seedAssignment(t, s, "ca-1", testutil.WithEndDate(testutil.Date(2024, time.June, 28)))
	seedAssignment(t, s, "ca-0", testutil.WithStartDate(testutil.Date(2024, time.January, 8)))

	got, err := s.Assignments.GetByID(ctx, "ca-1")
	require.NoError(t, err)
	assert.Equal(t, a.CourseID, got.CourseID)
	assert.Equal(t, "Algebra I", got.CourseName)
	assert.Equal(t, "North High", got.InstitutionName)
	assert.Equal(t, "R. Okafor", got.InstructorName)
	assert.Equal(t, "2024-03-04", got.StartDate.Format(domain.DateLayout))
	require.NotNil(t, got.EndDate)
	assert.Equal(t, "2024-06-28", got.EndDate.Format(domain.DateLayout))
	assert.False(t, got.CreatedAt.IsZero())

	list, err := s.Assignments.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ca-0", list[0].ID, "ordered by start date")
	assert.Nil(t, list[0].EndDate)

	_, err = s.Assignments.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testLessons(t *testing.T, open backend) {
	s, _ := open(t)
	ctx := context.Background()

	lessons := testutil.NewTestLessons("c-1", 3)
	for _, i := range []int{2, 0, 1} {
		require.NoError(t, s.Lessons.Create(ctx, &lessons[i]))
	}
	other := testutil.NewTestLessons("c-2", 1)
	require.NoError(t, s.Lessons.Create(ctx, &other[0]))

	got, err := s.Lessons.ListByCourse(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, l := range got {
		assert.Equal(t, lessons[i].ID, l.ID)
		assert.Equal(t, i+1, l.OrderIndex)
		assert.Equal(t, lessons[i].Title, l.Title)
	}

	none, err := s.Lessons.ListByCourse(ctx, "c-9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testPatterns(t *testing.T, open backend) {
	s, _ := open(t)
	ctx := context.Background()
	seedAssignment(t, s, "ca-1")

	_, err := s.Patterns.GetByAssignment(ctx, "ca-1")
	assert.ErrorIs(t, err, ErrNotFound)

	p := testutil.NewTestPattern("ca-1",
		testutil.WithSlot(time.Monday, "10:00", "11:00"),
		testutil.WithSlot(time.Wednesday, "14:00", "15:30"),
		testutil.WithAnchor(time.Wednesday, testutil.Date(2024, time.March, 20)),
		testutil.WithTarget(12),
	)
	p.ActiveWeekdays[time.Friday] = true // active without a slot
	p.TimeSlots[time.Saturday] = domain.TimeSlot{Weekday: time.Saturday, Start: domain.MustParseClock("09:00"), End: domain.MustParseClock("10:00")}
	require.NoError(t, s.Patterns.Upsert(ctx, p))

	got, err := s.Patterns.GetByAssignment(ctx, "ca-1")
	require.NoError(t, err)
	assert.Equal(t, 12, got.TargetLessonCount)
	assert.Equal(t, map[time.Weekday]bool{time.Monday: true, time.Wednesday: true, time.Friday: true}, got.ActiveWeekdays)
	require.Len(t, got.TimeSlots, 3)
	assert.Equal(t, "10:00", got.TimeSlots[time.Monday].Start.String())
	assert.Equal(t, "15:30", got.TimeSlots[time.Wednesday].End.String())
	require.NotNil(t, got.TimeSlots[time.Wednesday].AnchorDate)
	assert.Equal(t, "2024-03-20", got.TimeSlots[time.Wednesday].AnchorDate.Format(domain.DateLayout))
	assert.Nil(t, got.TimeSlots[time.Monday].AnchorDate)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday}, got.UsableWeekdays())

	replacement := testutil.NewTestPattern("ca-1", testutil.WithSlot(time.Tuesday, "08:00", "09:00"))
	require.NoError(t, s.Patterns.Upsert(ctx, replacement))

	got, err = s.Patterns.GetByAssignment(ctx, "ca-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.TargetLessonCount)
	assert.Equal(t, map[time.Weekday]bool{time.Tuesday: true}, got.ActiveWeekdays)
	assert.Len(t, got.TimeSlots, 1)
}

func testOccurrences(t *testing.T, open backend) {
	s, _ := open(t)
	ctx := context.Background()
	seedAssignment(t, s, "ca-1")
	seedAssignment(t, s, "ca-2")

	start := time.Date(2024, time.March, 4, 15, 0, 0, 0, time.UTC)
	generated := []domain.Occurrence{
		testutil.NewTestOccurrence("ca-1", "L1", start, 1),
		testutil.NewTestOccurrence("ca-1", "L2", start.AddDate(0, 0, 7), 2),
	}
	for i := range generated {
		generated[i].Origin = domain.OriginGenerated
	}

	n, err := s.Occurrences.UpsertGenerated(ctx, generated)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Occurrences.UpsertGenerated(ctx, generated)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "second write is a no-op")

	// Same key, different id and time: the stored row wins.
	clash := testutil.NewTestOccurrence("ca-1", "L1", start.Add(3*time.Hour), 1)
	n, err = s.Occurrences.UpsertGenerated(ctx, []domain.Occurrence{clash})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	manual := testutil.NewTestOccurrence("ca-1", "L0", start.AddDate(0, 0, -7), 0)
	require.NoError(t, s.Occurrences.CreateManual(ctx, &manual))
	other := testutil.NewTestOccurrence("ca-2", "L1", start, 1)
	require.NoError(t, s.Occurrences.CreateManual(ctx, &other))

	dup := testutil.NewTestOccurrence("ca-1", "L0", start.AddDate(0, 1, 0), 9)
	assert.Error(t, s.Occurrences.CreateManual(ctx, &dup), "manual entry must respect the lesson key")

	list, err := s.Occurrences.ListByAssignment(ctx, "ca-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "L0", list[0].LessonID)
	assert.Equal(t, domain.OriginPersisted, list[0].Origin)
	assert.Equal(t, "L1", list[1].LessonID)
	assert.Equal(t, generated[0].ID, list[1].ID)
	assert.True(t, list[1].StartAt.Equal(start))
	assert.True(t, list[1].EndAt.Equal(start.Add(time.Hour)))
	assert.Equal(t, domain.OriginPersisted, list[1].Origin, "saved generated rows read back as persisted")
	assert.Equal(t, 2, list[2].LessonNumber)

	moved := start.AddDate(0, 0, 7).Add(4 * time.Hour)
	require.NoError(t, s.Occurrences.Reschedule(ctx, generated[1].ID, moved, moved.Add(90*time.Minute)))
	got, err := s.Occurrences.GetByID(ctx, generated[1].ID)
	require.NoError(t, err)
	assert.True(t, got.StartAt.Equal(moved))
	assert.True(t, got.EndAt.Equal(moved.Add(90*time.Minute)))
	assert.Equal(t, domain.OriginPersisted, got.Origin)

	err = s.Occurrences.Reschedule(ctx, "missing", moved, moved.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Occurrences.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testReports(t *testing.T, open backend) {
	s, _ := open(t)
	ctx := context.Background()
	seedAssignment(t, s, "ca-1")

	reported, err := s.Occurrences.ListReportedLessonIDs(ctx, "ca-1")
	require.NoError(t, err)
	assert.Empty(t, reported)

	at := time.Date(2024, time.March, 4, 16, 0, 0, 0, time.UTC)
	require.NoError(t, s.Occurrences.MarkReported(ctx, "ca-1", "L1", at))
	require.NoError(t, s.Occurrences.MarkReported(ctx, "ca-1", "L1", at.Add(time.Hour)), "reporting twice is allowed")
	require.NoError(t, s.Occurrences.MarkReported(ctx, "ca-1", "L3", at))

	reported, err = s.Occurrences.ListReportedLessonIDs(ctx, "ca-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"L1": true, "L3": true}, reported)
}

func testBlockedDates(t *testing.T, open backend) {
	s, _ := open(t)
	ctx := context.Background()

	spring := testutil.NewTestBlockedRange(testutil.Date(2024, time.April, 1), testutil.Date(2024, time.April, 5), "spring break")
	holiday := testutil.NewTestBlockedDate(testutil.Date(2024, time.March, 18), "holiday")
	require.NoError(t, s.BlockedDates.Create(ctx, spring))
	require.NoError(t, s.BlockedDates.Create(ctx, holiday))

	list, err := s.BlockedDates.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, holiday.ID, list[0].ID)
	assert.Nil(t, list[0].EndDate)
	assert.Equal(t, "holiday", list[0].Reason)
	require.NotNil(t, list[1].EndDate)
	assert.Equal(t, "2024-04-05", list[1].EndDate.Format(domain.DateLayout))
	assert.True(t, list[1].Covers(testutil.Date(2024, time.April, 3)))

	require.NoError(t, s.BlockedDates.Delete(ctx, holiday.ID))
	assert.ErrorIs(t, s.BlockedDates.Delete(ctx, holiday.ID), ErrNotFound)

	list, err = s.BlockedDates.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testTransactions(t *testing.T, open backend) {
	s, tx := open(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.InTx(ctx, func(ctx context.Context, ts Store) error {
		require.NoError(t, ts.Assignments.Create(ctx, testutil.NewTestAssignment("ca-rollback")))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	_, err = s.Assignments.GetByID(ctx, "ca-rollback")
	assert.ErrorIs(t, err, ErrNotFound)

	err = tx.InTx(ctx, func(ctx context.Context, ts Store) error {
		if err := ts.Assignments.Create(ctx, testutil.NewTestAssignment("ca-commit")); err != nil {
			return err
		}
		return ts.Patterns.Upsert(ctx, testutil.NewTestPattern("ca-commit", testutil.WithSlot(time.Monday, "10:00", "11:00")))
	})
	require.NoError(t, err)
	_, err = s.Patterns.GetByAssignment(ctx, "ca-commit")
	assert.NoError(t, err)
}
