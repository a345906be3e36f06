package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/repository"
)

type taskAdminService struct {
	tasks    repository.TaskRepo
	users    repository.UserRepo
	observer UseCaseObserver
	now      func() time.Time
}

func NewTaskAdminService(tasks repository.TaskRepo, users repository.UserRepo, observers ...UseCaseObserver) TaskAdminService {
	return &taskAdminService{
		tasks:    tasks,
		users:    users,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *taskAdminService) List(ctx context.Context, f repository.TaskFilter) ([]*domain.Task, error) {
	list, err := s.tasks.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		t.Normalize()
	}
	return list, nil
}

func (s *taskAdminService) Create(ctx context.Context, req CreateTaskRequest) (t *domain.Task, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "admin_create_task", start, &err, map[string]any{"user_id": req.UserID})
	}()

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user %s", ErrValidation, req.UserID)
		}
		return nil, fmt.Errorf("loading user %s: %w", req.UserID, err)
	}

	now := domain.NewTimestamp(s.now())
	t = &domain.Task{
		ID:                uuid.New().String(),
		UserID:            req.UserID,
		Type:              req.Type,
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		Status:            domain.StatusPending,
		ScheduledAt:       now,
		ClientID:          req.ClientID,
		DealID:            req.DealID,
		EstimatedDuration: req.EstimatedDuration,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.ScheduledAt != nil {
		t.ScheduledAt = domain.NewTimestamp(*req.ScheduledAt)
	}
	t.Normalize()

	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update merges a JSON patch into the stored document. Any field may
// change except id; concurrent edits are last-write-wins.
func (s *taskAdminService) Update(ctx context.Context, id string, patch json.RawMessage) (t *domain.Task, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "admin_update_task", start, &err, map[string]any{"task_id": id})
	}()

	var changes map[string]json.RawMessage
	if err := json.Unmarshal(patch, &changes); err != nil {
		return nil, fmt.Errorf("%w: patch must be a JSON object", ErrValidation)
	}
	delete(changes, "id")

	current, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encoding task %s: %w", id, err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding task %s: %w", id, err)
	}
	for k, v := range changes {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding task %s: %w", id, err)
	}

	var updated domain.Task
	if err := json.Unmarshal(merged, &updated); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = domain.NewTimestamp(s.now())
	updated.Normalize()

	if err := s.tasks.Upsert(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *taskAdminService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}
