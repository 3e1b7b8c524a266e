package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/alexanderramin/lessonplan/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrOccurrenceConflict is returned when a manual edit would overlap another
// occurrence of the same assignment.
var ErrOccurrenceConflict = errors.New("occurrence overlaps an existing lesson")

type occurrenceService struct {
	assignments repository.AssignmentRepo
	occurrences repository.OccurrenceRepo
	logger      *zap.Logger
	observer    UseCaseObserver
}

func NewOccurrenceService(
	assignments repository.AssignmentRepo,
	occurrences repository.OccurrenceRepo,
	logger *zap.Logger,
	observers ...UseCaseObserver,
) OccurrenceService {
	return &occurrenceService{
		assignments: assignments,
		occurrences: occurrences,
		logger:      loggerOrNop(logger).Named("occurrence"),
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *occurrenceService) Report(ctx context.Context, req app.ReportRequest) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "report-lesson",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"assignment_id": req.AssignmentID, "lesson_id": req.LessonID},
		})
	}()

	if req.AssignmentID == "" || req.LessonID == "" {
		return fmt.Errorf("assignment and lesson are required")
	}
	if _, err = s.assignments.GetByID(ctx, req.AssignmentID); err != nil {
		return fmt.Errorf("loading assignment %s: %w", req.AssignmentID, err)
	}

	at := startedAt
	if req.ReportedAt != nil {
		at = req.ReportedAt.UTC()
	}
	if err = s.occurrences.MarkReported(ctx, req.AssignmentID, req.LessonID, at); err != nil {
		return fmt.Errorf("reporting lesson %s: %w", req.LessonID, err)
	}
	s.logger.Info("lesson reported",
		zap.String("assignment_id", req.AssignmentID), zap.String("lesson_id", req.LessonID))
	return nil
}

func (s *occurrenceService) Reschedule(ctx context.Context, req app.RescheduleRequest) (occ *domain.Occurrence, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "reschedule",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"occurrence_id": req.OccurrenceID},
		})
	}()

	occ, err = s.occurrences.GetByID(ctx, req.OccurrenceID)
	if err != nil {
		return nil, fmt.Errorf("loading occurrence %s: %w", req.OccurrenceID, err)
	}

	duration := req.Duration
	if duration == 0 {
		duration = occ.EndAt.Sub(occ.StartAt)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("lesson duration must be positive, got %s", duration)
	}
	moved := *occ
	moved.StartAt = req.StartAt
	moved.EndAt = req.StartAt.Add(duration)
	moved.Origin = domain.OriginPersisted

	if err = s.checkConflicts(ctx, moved); err != nil {
		return nil, err
	}
	if err = s.occurrences.Reschedule(ctx, moved.ID, moved.StartAt, moved.EndAt); err != nil {
		return nil, fmt.Errorf("rescheduling occurrence %s: %w", moved.ID, err)
	}
	s.logger.Info("occurrence rescheduled",
		zap.String("occurrence_id", moved.ID),
		zap.Time("from", occ.StartAt), zap.Time("to", moved.StartAt))
	return &moved, nil
}

// AddManual stores a hand-entered occurrence. It takes the next lesson
// number when none is given.
func (s *occurrenceService) AddManual(ctx context.Context, o *domain.Occurrence) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "add-occurrence",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"assignment_id": o.CourseAssignmentID, "lesson_id": o.LessonID},
		})
	}()

	if !o.EndAt.After(o.StartAt) {
		return fmt.Errorf("end %s must be after start %s", o.EndAt.Format(time.RFC3339), o.StartAt.Format(time.RFC3339))
	}
	if _, err = s.assignments.GetByID(ctx, o.CourseAssignmentID); err != nil {
		return fmt.Errorf("loading assignment %s: %w", o.CourseAssignmentID, err)
	}

	existing, err := s.occurrences.ListByAssignment(ctx, o.CourseAssignmentID)
	if err != nil {
		return fmt.Errorf("listing occurrences: %w", err)
	}
	for _, e := range existing {
		if e.LessonID == o.LessonID {
			return fmt.Errorf("lesson %s is already scheduled on %s", o.LessonID, e.StartAt.Format(time.RFC3339))
		}
		if e.Overlaps(*o) {
			return fmt.Errorf("%w: lesson %s at %s", ErrOccurrenceConflict, e.LessonID, e.StartAt.Format(time.RFC3339))
		}
	}

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.LessonNumber == 0 {
		o.LessonNumber = len(existing) + 1
	}
	o.Origin = domain.OriginPersisted
	if err = s.occurrences.CreateManual(ctx, o); err != nil {
		return fmt.Errorf("creating occurrence: %w", err)
	}
	return nil
}

func (s *occurrenceService) checkConflicts(ctx context.Context, moved domain.Occurrence) error {
	others, err := s.occurrences.ListByAssignment(ctx, moved.CourseAssignmentID)
	if err != nil {
		return fmt.Errorf("listing occurrences: %w", err)
	}
	for _, o := range others {
		if o.ID == moved.ID {
			continue
		}
		if o.Overlaps(moved) {
			return fmt.Errorf("%w: lesson %s at %s", ErrOccurrenceConflict, o.LessonID, o.StartAt.Format(time.RFC3339))
		}
	}
	return nil
}
