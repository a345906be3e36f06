package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
)

type customGenerationService struct {
	loader       *PipelineLoader
	uow          db.UnitOfWork
	drafter      *intelligence.TaskDrafter
	instructions *intelligence.InstructionsFetcher
	observer     UseCaseObserver
	now          func() time.Time
}

// NewCustomGenerationService wires admin-driven generation. Previews ignore
// the seller's unfinished tasks and are never stored until confirmed.
func NewCustomGenerationService(
	loader *PipelineLoader,
	uow db.UnitOfWork,
	drafter *intelligence.TaskDrafter,
	instructions *intelligence.InstructionsFetcher,
	observers ...UseCaseObserver,
) CustomGenerationService {
	return &customGenerationService{
		loader:       loader,
		uow:          uow,
		drafter:      drafter,
		instructions: instructions,
		observer:     useCaseObserverOrNoop(observers),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *customGenerationService) Preview(ctx context.Context, req CustomGenerationRequest) (res *TaskGenerationResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "preview_custom_tasks", start, &err, map[string]any{"user_id": req.UserID, "count": req.Count})
	}()

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	pipeline, err := s.loader.Load(ctx, req.UserID, time.Time{})
	if err != nil {
		return nil, err
	}

	snap := pipeline.snapshot(s.now(), s.instructions.Fetch(ctx, req.UserID))
	snap.AdminPrompt = req.Prompt
	snap.TaskCount = req.Count

	draft := s.drafter.Draft(ctx, snap)
	return &TaskGenerationResult{
		Tasks:          draft.Tasks,
		Source:         draft.Source,
		FallbackReason: draft.FallbackReason,
	}, nil
}

// Confirm restamps the previewed tasks and stores them atomically. Client
// supplied ids, owners and statuses are replaced.
func (s *customGenerationService) Confirm(ctx context.Context, req ConfirmTasksRequest) (tasks []domain.Task, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "confirm_custom_tasks", start, &err, map[string]any{"user_id": req.UserID, "count": len(req.Tasks)})
	}()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := domain.NewTimestamp(s.now())
	tasks = make([]domain.Task, len(req.Tasks))
	for i, t := range req.Tasks {
		t.ID = uuid.New().String()
		t.UserID = req.UserID
		t.Status = domain.StatusPending
		t.CreatedAt = now
		t.UpdatedAt = now
		if t.ScheduledAt.IsZero() {
			t.ScheduledAt = now
		}
		t.CompletedAt = nil
		t.Normalize()
		t.EstimatedDuration = domain.ClampDuration(t.Type, t.EstimatedDuration)
		tasks[i] = t
	}

	if err := persistTasks(ctx, s.uow, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
