package app

import (
	"context"

	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/alexanderramin/lessonplan/internal/importer"
)

type CalendarUseCase interface {
	Calendar(ctx context.Context, req CalendarRequest) (*CalendarResponse, error)
}

type GenerateUseCase interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

type AssignmentsUseCase interface {
	ListAssignments(ctx context.Context) ([]AssignmentSummary, error)
}

type ReportUseCase interface {
	Report(ctx context.Context, req ReportRequest) error
}

type RescheduleUseCase interface {
	Reschedule(ctx context.Context, req RescheduleRequest) (*domain.Occurrence, error)
}

type BlockedDatesUseCase interface {
	Add(ctx context.Context, b *domain.BlockedDate) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.BlockedDate, error)
}

type ImportPlanUseCase interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPlan(ctx context.Context, plan *importer.Plan) (*ImportResult, error)
}
