package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/lessonplan/internal/blackout"
	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/alexanderramin/lessonplan/internal/repository"
	"github.com/alexanderramin/lessonplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected failure")

type testEnv struct {
	db       *sql.DB
	store    repository.Store
	registry *blackout.Registry
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	store := repository.NewSQLiteStore(database)
	return &testEnv{
		db:       database,
		store:    store,
		registry: blackout.NewRegistry(store.BlockedDates),
	}
}

// seedAlgebra stores assignment "a-1" of course c-1 with n lessons, taught
// Mondays 09:00-10:00 and Wednesdays 13:00-14:00 from Monday 2024-03-04.
func (e *testEnv) seedAlgebra(t *testing.T, n int, opts ...testutil.PatternOption) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.store.Assignments.Create(ctx, testutil.NewTestAssignment("a-1")))
	for _, l := range testutil.NewTestLessons("c-1", n) {
		require.NoError(t, e.store.Lessons.Create(ctx, &l))
	}
	opts = append([]testutil.PatternOption{
		testutil.WithSlot(time.Monday, "09:00", "10:00"),
		testutil.WithSlot(time.Wednesday, "13:00", "14:00"),
	}, opts...)
	require.NoError(t, e.store.Patterns.Upsert(ctx, testutil.NewTestPattern("a-1", opts...)))
}

func utcAt(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func entryStarts(entries []domain.CalendarEntry) []time.Time {
	out := make([]time.Time, len(entries))
	for i, e := range entries {
		out[i] = e.StartAt.UTC()
	}
	return out
}

// failingOccurrences fails the listed reads and delegates everything else.
type failingOccurrences struct {
	repository.OccurrenceRepo
	listErr     error
	reportedErr error
	upsertErr   error
}

func (f *failingOccurrences) ListByAssignment(ctx context.Context, id string) ([]domain.Occurrence, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.OccurrenceRepo.ListByAssignment(ctx, id)
}

func (f *failingOccurrences) ListReportedLessonIDs(ctx context.Context, id string) (map[string]bool, error) {
	if f.reportedErr != nil {
		return nil, f.reportedErr
	}
	return f.OccurrenceRepo.ListReportedLessonIDs(ctx, id)
}

func (f *failingOccurrences) UpsertGenerated(ctx context.Context, occs []domain.Occurrence) (int, error) {
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	return f.OccurrenceRepo.UpsertGenerated(ctx, occs)
}

type failingLessons struct {
	repository.LessonRepo
}

func (failingLessons) ListByCourse(context.Context, string) ([]domain.CurriculumLesson, error) {
	return nil, errInjected
}

type failingPatterns struct {
	repository.PatternRepo
}

func (failingPatterns) GetByAssignment(context.Context, string) (*domain.RecurrencePattern, error) {
	return nil, errInjected
}

type failingAssignments struct {
	repository.AssignmentRepo
}

func (failingAssignments) List(context.Context) ([]*domain.CourseAssignment, error) {
	return nil, errInjected
}

// brokenRegistry never yields blocked dates.
type brokenRegistry struct {
	invalidated int
}

func (*brokenRegistry) Snapshot(context.Context) (blackout.Snapshot, error) {
	return blackout.Snapshot{}, errInjected
}

func (r *brokenRegistry) Invalidate() { r.invalidated++ }

// recordingObserver keeps every use-case event.
type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}
