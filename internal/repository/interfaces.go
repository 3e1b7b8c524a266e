package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.CourseAssignment) error
	GetByID(ctx context.Context, id string) (*domain.CourseAssignment, error)
	List(ctx context.Context) ([]*domain.CourseAssignment, error)
}

type PatternRepo interface {
	GetByAssignment(ctx context.Context, assignmentID string) (*domain.RecurrencePattern, error)
	Upsert(ctx context.Context, p *domain.RecurrencePattern) error
}

type LessonRepo interface {
	Create(ctx context.Context, l *domain.CurriculumLesson) error
	// ListByCourse returns lessons ordered by OrderIndex.
	ListByCourse(ctx context.Context, courseID string) ([]domain.CurriculumLesson, error)
}

type OccurrenceRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Occurrence, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]domain.Occurrence, error)
	ListReportedLessonIDs(ctx context.Context, assignmentID string) (map[string]bool, error)

	// UpsertGenerated inserts occurrences whose (assignment, lesson) key is
	// not stored yet and returns how many were inserted. Existing rows are
	// never modified.
	UpsertGenerated(ctx context.Context, occs []domain.Occurrence) (int, error)
	CreateManual(ctx context.Context, o *domain.Occurrence) error
	// Reschedule moves an occurrence and marks it persisted, so later
	// regeneration never overrides the edit.
	Reschedule(ctx context.Context, id string, startAt, endAt time.Time) error
	MarkReported(ctx context.Context, assignmentID, lessonID string, at time.Time) error
}

type BlockedDateRepo interface {
	Create(ctx context.Context, b *domain.BlockedDate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.BlockedDate, error)
}

// Store bundles the repositories of one backend, optionally scoped to a
// transaction.
type Store struct {
	Assignments  AssignmentRepo
	Patterns     PatternRepo
	Lessons      LessonRepo
	Occurrences  OccurrenceRepo
	BlockedDates BlockedDateRepo
}

// TxRunner runs fn against a Store whose repositories share one
// transaction. The transaction commits when fn returns nil.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
