package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/blackout"
	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/alexanderramin/lessonplan/internal/repository"
	"github.com/alexanderramin/lessonplan/internal/scheduler"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// planConcurrency bounds how many assignments are read and generated at once.
const planConcurrency = 4

var maxTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

type scheduleService struct {
	store    repository.Store
	registry BlockedDateRegistry
	loc      *time.Location
	logger   *zap.Logger
	observer UseCaseObserver
}

func NewScheduleService(
	store repository.Store,
	registry BlockedDateRegistry,
	loc *time.Location,
	logger *zap.Logger,
	observers ...UseCaseObserver,
) ScheduleService {
	if loc == nil {
		loc = time.Local
	}
	return &scheduleService{
		store:    store,
		registry: registry,
		loc:      loc,
		logger:   loggerOrNop(logger).Named("schedule"),
		observer: useCaseObserverOrNoop(observers),
	}
}

// assignmentPlan is everything read and generated for one assignment.
type assignmentPlan struct {
	assignmentID string
	assignment   *domain.CourseAssignment
	lessons      map[string]*domain.CurriculumLesson
	persisted    []domain.Occurrence
	result       scheduler.GenerateResult

	// displayOnly is set when existing occurrences or reports could not be
	// read. Numbering and resume date are then unreliable, so nothing
	// generated may be written.
	displayOnly bool
	warnings    []string
}

func (p *assignmentPlan) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (s *scheduleService) Calendar(ctx context.Context, req app.CalendarRequest) (resp *app.CalendarResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"assignments": len(req.AssignmentIDs), "persist": req.Persist}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "calendar",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if err = req.Validate(); err != nil {
		return nil, err
	}

	resp = &app.CalendarResponse{Entries: []domain.CalendarEntry{}}
	plans, warnings, err := s.planAll(ctx, req.AssignmentIDs)
	if err != nil {
		return nil, err
	}
	resp.Warnings = warnings

	var persisted, generated []domain.Occurrence
	saved := make(map[domain.OccurrenceKey]bool)
	for _, p := range plans {
		persisted = append(persisted, p.persisted...)
		generated = append(generated, p.result.Occurrences...)
		resp.Warnings = append(resp.Warnings, p.warnings...)

		if req.Persist && len(p.result.Occurrences) > 0 {
			if p.displayOnly {
				resp.Warnings = append(resp.Warnings, fmt.Sprintf(
					"assignment %s: generated lessons shown but not saved", p.assignmentID))
				continue
			}
			n, werr := s.store.Occurrences.UpsertGenerated(ctx, p.result.Occurrences)
			if werr != nil {
				s.logger.Warn("persisting generated occurrences failed",
					zap.String("assignment_id", p.assignmentID), zap.Error(werr))
				resp.Warnings = append(resp.Warnings, fmt.Sprintf(
					"assignment %s: saving generated lessons failed: %v", p.assignmentID, werr))
				continue
			}
			resp.Persisted += n
			for _, o := range p.result.Occurrences {
				saved[o.Key()] = true
			}
		}
	}

	occs := s.window(scheduler.Merge(persisted, generated), req)
	resp.Entries = s.denormalize(occs, plans)
	stored := make(map[domain.OccurrenceKey]bool, len(persisted))
	for _, o := range persisted {
		stored[o.Key()] = true
	}
	resp.Proposed = make(map[domain.OccurrenceKey]bool)
	for _, e := range resp.Entries {
		if stored[e.Key()] {
			continue
		}
		resp.Generated++
		if !saved[e.Key()] {
			resp.Proposed[e.Key()] = true
		}
	}
	fields["entries"] = len(resp.Entries)
	fields["warnings"] = len(resp.Warnings)
	return resp, nil
}

func (s *scheduleService) Generate(ctx context.Context, req app.GenerateRequest) (resp *app.GenerateResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"assignments": len(req.AssignmentIDs)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "generate",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	plans, warnings, err := s.planAll(ctx, req.AssignmentIDs)
	if err != nil {
		return nil, err
	}

	resp = &app.GenerateResponse{Assignments: make([]app.AssignmentGeneration, 0, len(plans)), Warnings: warnings}
	inserted := 0
	for _, p := range plans {
		resp.Warnings = append(resp.Warnings, p.warnings...)
		gen := app.AssignmentGeneration{
			AssignmentID: p.assignmentID,
			ResumeDate:   p.result.ResumeDate,
			Generated:    len(p.result.Occurrences),
			Exhausted:    p.result.Exhausted,
			DisplayOnly:  p.displayOnly,
		}
		if !p.displayOnly && gen.Generated > 0 {
			gen.Inserted, err = s.store.Occurrences.UpsertGenerated(ctx, p.result.Occurrences)
			if err != nil {
				return nil, fmt.Errorf("saving occurrences for assignment %s: %w", p.assignmentID, err)
			}
			inserted += gen.Inserted
		}
		resp.Assignments = append(resp.Assignments, gen)
	}
	fields["inserted"] = inserted
	return resp, nil
}

// planAll resolves the assignments and plans each of them concurrently.
// Read failures become warnings; only cancellation is returned as an error.
func (s *scheduleService) planAll(ctx context.Context, ids []string) ([]*assignmentPlan, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	var warnings []string

	targets, err := s.resolveAssignments(ctx, ids)
	if err != nil {
		s.logger.Warn("listing assignments failed", zap.Error(err))
		warnings = append(warnings, fmt.Sprintf("assignments unavailable: %v", err))
	}

	snap, err := s.registry.Snapshot(ctx)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("blocked dates unavailable, no day treated as blocked: %v", err))
	}

	plans := make([]*assignmentPlan, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(planConcurrency)
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			plans[i] = s.planAssignment(gctx, t, snap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return plans, warnings, nil
}

type planTarget struct {
	id         string
	assignment *domain.CourseAssignment
	lookupErr  error
}

// resolveAssignments lists every assignment when ids is empty. Listed ids
// that cannot be loaded are kept with a nil assignment so their persisted
// occurrences still show.
func (s *scheduleService) resolveAssignments(ctx context.Context, ids []string) ([]planTarget, error) {
	if len(ids) == 0 {
		all, err := s.store.Assignments.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]planTarget, 0, len(all))
		for _, a := range all {
			out = append(out, planTarget{id: a.ID, assignment: a})
		}
		return out, nil
	}

	out := make([]planTarget, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		a, err := s.store.Assignments.GetByID(ctx, id)
		out = append(out, planTarget{id: id, assignment: a, lookupErr: err})
	}
	return out, nil
}

func (s *scheduleService) planAssignment(ctx context.Context, t planTarget, snap blackout.Snapshot) *assignmentPlan {
	p := &assignmentPlan{
		assignmentID: t.id,
		assignment:   t.assignment,
		lessons:      map[string]*domain.CurriculumLesson{},
	}
	log := s.logger.With(zap.String("assignment_id", t.id))

	if t.lookupErr != nil {
		if errors.Is(t.lookupErr, repository.ErrNotFound) {
			p.warn("assignment %s not found", t.id)
		} else {
			log.Warn("loading assignment failed", zap.Error(t.lookupErr))
			p.warn("assignment %s unavailable: %v", t.id, t.lookupErr)
		}
	}

	existing, err := s.store.Occurrences.ListByAssignment(ctx, t.id)
	if err != nil {
		log.Warn("reading existing occurrences failed", zap.Error(err))
		p.warn("assignment %s: existing lessons unavailable: %v", t.id, err)
		p.displayOnly = true
		existing = nil
	}
	p.persisted = existing

	reported, err := s.store.Occurrences.ListReportedLessonIDs(ctx, t.id)
	if err != nil {
		log.Warn("reading reported lessons failed", zap.Error(err))
		p.warn("assignment %s: reported lessons unavailable: %v", t.id, err)
		p.displayOnly = true
		reported = map[string]bool{}
	}

	a := t.assignment
	if a == nil {
		return p
	}

	lessons, err := s.store.Lessons.ListByCourse(ctx, a.CourseID)
	if err != nil {
		log.Warn("reading curriculum failed", zap.String("course_id", a.CourseID), zap.Error(err))
		p.warn("assignment %s: curriculum unavailable: %v", t.id, err)
		lessons = nil
	}
	for i := range lessons {
		p.lessons[lessons[i].ID] = &lessons[i]
	}

	pattern, err := s.store.Patterns.GetByAssignment(ctx, t.id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Debug("no recurrence pattern")
		return p
	case err != nil:
		log.Warn("reading recurrence pattern failed", zap.Error(err))
		p.warn("assignment %s: recurrence pattern unavailable: %v", t.id, err)
		return p
	}

	p.result = scheduler.Generate(scheduler.GenerateInput{
		Pattern:     pattern,
		Lessons:     lessons,
		Existing:    existing,
		Reported:    reported,
		Blocked:     snap.IsBlocked,
		CourseStart: a.StartDate,
		CourseEnd:   a.EndDate,
		Location:    s.loc,
	})
	if p.result.Exhausted {
		log.Warn("no usable day found within search bound",
			zap.Int("max_search_days", scheduler.MaxSearchDays),
			zap.Int("generated", len(p.result.Occurrences)))
		p.warn("assignment %s: no usable day within %d days of %s, schedule is partial",
			t.id, scheduler.MaxSearchDays, p.result.ResumeDate.Format(domain.DateLayout))
	}
	return p
}

func (s *scheduleService) window(occs []domain.Occurrence, req app.CalendarRequest) []domain.Occurrence {
	switch {
	case req.Day != nil:
		return scheduler.FilterByDay(occs, *req.Day, s.loc)
	case req.From != nil || req.To != nil:
		from, to := time.Time{}, maxTime
		if req.From != nil {
			from = *req.From
		}
		if req.To != nil {
			to = *req.To
		}
		return scheduler.FilterByRange(occs, from, to)
	default:
		return occs
	}
}

func (s *scheduleService) denormalize(occs []domain.Occurrence, plans []*assignmentPlan) []domain.CalendarEntry {
	byID := make(map[string]*assignmentPlan, len(plans))
	for _, p := range plans {
		byID[p.assignmentID] = p
	}
	entries := make([]domain.CalendarEntry, 0, len(occs))
	for _, o := range occs {
		var a *domain.CourseAssignment
		var lesson *domain.CurriculumLesson
		if p, ok := byID[o.CourseAssignmentID]; ok {
			a = p.assignment
			lesson = p.lessons[o.LessonID]
		}
		entries = append(entries, domain.NewCalendarEntry(o, a, lesson))
	}
	return entries
}

func (s *scheduleService) ListAssignments(ctx context.Context) (out []app.AssignmentSummary, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "list-assignments",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"count": len(out)},
		})
	}()

	assignments, err := s.store.Assignments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}

	out = make([]app.AssignmentSummary, 0, len(assignments))
	for _, a := range assignments {
		sum := app.AssignmentSummary{Assignment: *a}

		pattern, perr := s.store.Patterns.GetByAssignment(ctx, a.ID)
		switch {
		case errors.Is(perr, repository.ErrNotFound):
			sum.Problems = append(sum.Problems, "no recurrence pattern")
		case perr != nil:
			return nil, fmt.Errorf("loading pattern for %s: %w", a.ID, perr)
		default:
			sum.UsableWeekdays = pattern.UsableWeekdays()
			sum.TargetLessons = pattern.TargetLessonCount
			for _, p := range pattern.Problems() {
				sum.Problems = append(sum.Problems, p.Error())
			}
			if len(sum.UsableWeekdays) == 0 {
				sum.Problems = append(sum.Problems, "pattern has no usable weekday")
			}
		}

		lessons, err := s.store.Lessons.ListByCourse(ctx, a.CourseID)
		if err != nil {
			return nil, fmt.Errorf("listing lessons for %s: %w", a.ID, err)
		}
		sum.LessonCount = len(lessons)

		occs, err := s.store.Occurrences.ListByAssignment(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("listing occurrences for %s: %w", a.ID, err)
		}
		sum.ScheduledCount = len(occs)

		reported, err := s.store.Occurrences.ListReportedLessonIDs(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("listing reports for %s: %w", a.ID, err)
		}
		sum.ReportedCount = len(reported)

		out = append(out, sum)
	}
	return out, nil
}
