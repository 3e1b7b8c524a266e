package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/lessonplan/internal/domain"
	"github.com/alexanderramin/lessonplan/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type blockedDateService struct {
	blocked  repository.BlockedDateRepo
	registry BlockedDateRegistry
	logger   *zap.Logger
	observer UseCaseObserver
}

// NewBlockedDateService administers blocked dates. Every successful write
// invalidates registry so the next generation run sees the change.
func NewBlockedDateService(
	blocked repository.BlockedDateRepo,
	registry BlockedDateRegistry,
	logger *zap.Logger,
	observers ...UseCaseObserver,
) BlockedDateService {
	return &blockedDateService{
		blocked:  blocked,
		registry: registry,
		logger:   loggerOrNop(logger).Named("blocked"),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *blockedDateService) Add(ctx context.Context, b *domain.BlockedDate) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "add-blocked-date",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"range": b.IsRange()},
		})
	}()

	if err = b.Validate(); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if err = s.blocked.Create(ctx, b); err != nil {
		return fmt.Errorf("creating blocked date: %w", err)
	}
	s.registry.Invalidate()

	fields := []zap.Field{zap.String("id", b.ID), zap.String("date", b.Date.Format(domain.DateLayout))}
	if b.EndDate != nil {
		fields = append(fields, zap.String("end_date", b.EndDate.Format(domain.DateLayout)))
	}
	s.logger.Info("blocked date added", fields...)
	return nil
}

func (s *blockedDateService) Remove(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "remove-blocked-date",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"id": id},
		})
	}()

	if err = s.blocked.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting blocked date %s: %w", id, err)
	}
	s.registry.Invalidate()
	s.logger.Info("blocked date removed", zap.String("id", id))
	return nil
}

// List reads storage directly so administrators see writes immediately.
func (s *blockedDateService) List(ctx context.Context) ([]domain.BlockedDate, error) {
	out, err := s.blocked.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing blocked dates: %w", err)
	}
	return out, nil
}
