package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/alexanderramin/lessonplan/internal/importer"
	"github.com/alexanderramin/lessonplan/internal/repository"
	"go.uber.org/zap"
)

type importService struct {
	runner   repository.TxRunner
	registry BlockedDateRegistry
	loc      *time.Location
	logger   *zap.Logger
	observer UseCaseObserver
}

// NewImportService writes plan files in a single transaction. Wall-clock
// times in the file are read in loc.
func NewImportService(
	runner repository.TxRunner,
	registry BlockedDateRegistry,
	loc *time.Location,
	logger *zap.Logger,
	observers ...UseCaseObserver,
) ImportService {
	if loc == nil {
		loc = time.Local
	}
	return &importService{
		runner:   runner,
		registry: registry,
		loc:      loc,
		logger:   loggerOrNop(logger).Named("import"),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*app.ImportResult, error) {
	plan, err := importer.LoadPlan(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading plan file: %w", err)
	}
	return s.ImportPlan(ctx, plan)
}

func (s *importService) ImportPlan(ctx context.Context, plan *importer.Plan) (res *app.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"courses": len(plan.Courses), "assignments": len(plan.Assignments)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-plan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err = importer.ValidatePlan(plan); err != nil {
		return nil, fmt.Errorf("import validation failed:\n%w", err)
	}

	bundle, err := importer.Convert(plan, s.loc, startedAt)
	if err != nil {
		return nil, fmt.Errorf("converting plan: %w", err)
	}

	err = s.runner.InTx(ctx, func(ctx context.Context, st repository.Store) error {
		for i := range bundle.Lessons {
			if err := st.Lessons.Create(ctx, &bundle.Lessons[i]); err != nil {
				return fmt.Errorf("creating lesson %q: %w", bundle.Lessons[i].ID, err)
			}
		}
		for _, a := range bundle.Assignments {
			if err := st.Assignments.Create(ctx, a); err != nil {
				return fmt.Errorf("creating assignment %q: %w", a.ID, err)
			}
		}
		for _, p := range bundle.Patterns {
			if err := st.Patterns.Upsert(ctx, p); err != nil {
				return fmt.Errorf("saving pattern for %q: %w", p.CourseAssignmentID, err)
			}
		}
		for i := range bundle.Occurrences {
			o := &bundle.Occurrences[i]
			if err := st.Occurrences.CreateManual(ctx, o); err != nil {
				return fmt.Errorf("creating occurrence of %q: %w", o.LessonID, err)
			}
		}
		for _, r := range bundle.Reports {
			if err := st.Occurrences.MarkReported(ctx, r.AssignmentID, r.LessonID, startedAt); err != nil {
				return fmt.Errorf("reporting %q: %w", r.LessonID, err)
			}
		}
		for _, b := range bundle.BlockedDates {
			if err := st.BlockedDates.Create(ctx, b); err != nil {
				return fmt.Errorf("creating blocked date %s: %w", b.Date.Format(domain.DateLayout), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(bundle.BlockedDates) > 0 {
		s.registry.Invalidate()
	}

	res = &app.ImportResult{
		Courses:      len(plan.Courses),
		Lessons:      len(bundle.Lessons),
		Assignments:  len(bundle.Assignments),
		Patterns:     len(bundle.Patterns),
		Occurrences:  len(bundle.Occurrences),
		BlockedDates: len(bundle.BlockedDates),
	}
	fields["lessons"] = res.Lessons
	s.logger.Info("plan imported",
		zap.Int("lessons", res.Lessons),
		zap.Int("assignments", res.Assignments),
		zap.Int("blocked_dates", res.BlockedDates))
	return res, nil
}
