package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
	"github.com/stefanorainone/sales-management/internal/lock"
	"github.com/stefanorainone/sales-management/internal/repository"
)

type taskGenerationService struct {
	tasks        repository.TaskRepo
	uow          db.UnitOfWork
	drafter      *intelligence.TaskDrafter
	instructions *intelligence.InstructionsFetcher
	locker       lock.Locker
	logger       *slog.Logger
	observer     UseCaseObserver
	now          func() time.Time
}

// NewTaskGenerationService wires daily task generation. A nil locker falls
// back to an in-process MemoryLocker.
func NewTaskGenerationService(
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	drafter *intelligence.TaskDrafter,
	instructions *intelligence.InstructionsFetcher,
	locker lock.Locker,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) TaskGenerationService {
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskGenerationService{
		tasks:        tasks,
		uow:          uow,
		drafter:      drafter,
		instructions: instructions,
		locker:       locker,
		logger:       logger,
		observer:     useCaseObserverOrNoop(observers),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *taskGenerationService) GenerateDailyTasks(ctx context.Context, req GenerateDailyTasksRequest) (res *TaskGenerationResult, err error) {
	start := time.Now()
	fields := map[string]any{"user_id": req.UserID}
	defer func() {
		if res != nil {
			fields["source"] = string(res.Source)
			fields["task_count"] = len(res.Tasks)
		}
		observe(ctx, s.observer, "generate_daily_tasks", start, &err, fields)
	}()

	if existing, err := s.unfinished(ctx, req.UserID); err != nil || len(existing) > 0 {
		return existingResult(existing), err
	}

	release, err := s.locker.Acquire(ctx, "generate:"+req.UserID)
	if err != nil {
		return nil, fmt.Errorf("locking generation for %s: %w", req.UserID, err)
	}
	defer release()

	// Another request may have generated while we waited.
	if existing, err := s.unfinished(ctx, req.UserID); err != nil || len(existing) > 0 {
		return existingResult(existing), err
	}

	snap := req.snapshot(s.now(), s.instructions.Fetch(ctx, req.UserID))
	draft := s.drafter.Draft(ctx, snap)

	if err := persistTasks(ctx, s.uow, draft.Tasks); err != nil {
		s.logger.ErrorContext(ctx, "persisting generated tasks failed",
			"user_id", req.UserID, "count", len(draft.Tasks), "error", err.Error())
	}

	return &TaskGenerationResult{
		Tasks:          draft.Tasks,
		Source:         draft.Source,
		FallbackReason: draft.FallbackReason,
	}, nil
}

func (s *taskGenerationService) unfinished(ctx context.Context, userID string) ([]domain.Task, error) {
	list, err := s.tasks.List(ctx, repository.TaskFilter{
		UserID:   userID,
		Statuses: []domain.TaskStatus{domain.StatusPending, domain.StatusInProgress},
	})
	if err != nil {
		return nil, fmt.Errorf("reading tasks of %s: %w", userID, err)
	}
	out := values(list)
	for i := range out {
		out[i].Normalize()
	}
	return out, nil
}

func existingResult(tasks []domain.Task) *TaskGenerationResult {
	if tasks == nil {
		return nil
	}
	return &TaskGenerationResult{Tasks: tasks, Source: intelligence.SourceExisting}
}

// persistTasks inserts a whole batch in one transaction.
func persistTasks(ctx context.Context, uow db.UnitOfWork, tasks []domain.Task) error {
	return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTaskRepo(tx)
		for i := range tasks {
			if err := repo.Create(ctx, &tasks[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
