package service

import (
	"context"

	"github.com/alexanderramin/lessonplan/internal/app"
	"github.com/alexanderramin/lessonplan/internal/blackout"
	"github.com/alexanderramin/lessonplan/internal/domain"
)

type ScheduleService interface {
	app.CalendarUseCase
	app.GenerateUseCase
	app.AssignmentsUseCase
}

type OccurrenceService interface {
	app.ReportUseCase
	app.RescheduleUseCase
	AddManual(ctx context.Context, o *domain.Occurrence) error
}

type BlockedDateService interface {
	app.BlockedDatesUseCase
}

type ImportService interface {
	app.ImportPlanUseCase
}

// BlockedDateRegistry is the cached view of blocked dates shared by the
// services. *blackout.Registry implements it.
type BlockedDateRegistry interface {
	Snapshot(ctx context.Context) (blackout.Snapshot, error)
	Invalidate()
}
