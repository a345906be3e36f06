package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/storage"
)

type completionService struct {
	tasks    repository.TaskRepo
	clients  repository.ClientRepo
	deals    repository.DealRepo
	store    storage.AttachmentStore
	analyzer intelligence.NotesAnalyzer
	logger   *slog.Logger
	observer UseCaseObserver
	now      func() time.Time
}

func NewCompletionService(
	tasks repository.TaskRepo,
	clients repository.ClientRepo,
	deals repository.DealRepo,
	store storage.AttachmentStore,
	analyzer intelligence.NotesAnalyzer,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) CompletionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &completionService{
		tasks:    tasks,
		clients:  clients,
		deals:    deals,
		store:    store,
		analyzer: analyzer,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *completionService) Complete(ctx context.Context, req CompleteTaskRequest) (res *CompletionResult, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "complete_task", start, &err, map[string]any{
			"task_id": req.TaskID, "files": len(req.Files),
		})
	}()

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	task, err := s.ownedTask(ctx, req.UserID, req.TaskID)
	if err != nil {
		return nil, err
	}

	res = &CompletionResult{}
	var urls []string
	if len(req.Files) > 0 {
		urls, err = s.store.Upload(ctx, task.ID, req.Files)
		if err != nil {
			if !req.ProceedWithoutAttachments {
				return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
			}
			s.logger.WarnContext(ctx, "completing without attachments", "task_id", task.ID, "error", err.Error())
			res.UploadError = err.Error()
			urls = nil
		}
	}

	if req.Notes != "" || req.Results != "" {
		res.Analysis = s.analyzer.AnalyzeTaskNotes(ctx, s.notesInput(ctx, task, req))
	}

	now := domain.NewTimestamp(s.now())
	task.Status = domain.StatusCompleted
	task.CompletedAt = &now
	task.Outcome = req.Outcome
	task.Results = req.Results
	task.Notes = req.Notes
	task.AdditionalNotes = req.AdditionalNotes
	if req.ActualDuration > 0 {
		task.ActualDuration = req.ActualDuration
	}
	task.Attachments = append(task.Attachments, urls...)
	if res.Analysis != nil && !res.Analysis.Degraded {
		task.AIAnalysis = res.Analysis.Analysis
	}
	task.UpdatedAt = now
	task.Normalize()

	if err := s.tasks.Upsert(ctx, task); err != nil {
		return nil, err
	}
	res.Task = task
	return res, nil
}

// notesInput resolves client and deal names for the analyzer. Lookup
// failures only leave the names empty.
func (s *completionService) notesInput(ctx context.Context, task *domain.Task, req CompleteTaskRequest) intelligence.NotesInput {
	in := intelligence.NotesInput{
		TaskType:  task.Type,
		TaskTitle: task.Title,
		Notes:     req.Notes,
		Results:   req.Results,
		Outcome:   req.Outcome,
	}
	if task.ClientID != "" {
		if c, err := s.clients.GetByID(ctx, task.ClientID); err == nil {
			in.ClientName = c.Name
		}
	}
	if task.DealID != "" {
		if d, err := s.deals.GetByID(ctx, task.DealID); err == nil {
			in.DealTitle = d.Title
		}
	}
	return in
}

func (s *completionService) Snooze(ctx context.Context, req SnoozeRequest) (*domain.Task, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	task, err := s.ownedTask(ctx, req.UserID, req.TaskID)
	if err != nil {
		return nil, err
	}

	now := domain.NewTimestamp(s.now())
	if !req.Until.After(now.Time) {
		return nil, fmt.Errorf("%w: until must be in the future", ErrValidation)
	}
	until := domain.NewTimestamp(req.Until)
	if task.OriginalScheduledAt == nil {
		orig := task.ScheduledAt
		task.OriginalScheduledAt = &orig
	}
	task.PostponeHistory = append(task.PostponeHistory, domain.PostponeEntry{
		PostponedAt: now,
		Reason:      req.Reason,
		FromDate:    task.ScheduledAt,
		ToDate:      until,
	})
	task.ScheduledAt = until
	task.SnoozedUntil = &until
	task.Status = domain.StatusSnoozed
	task.UpdatedAt = now

	if err := s.tasks.Upsert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// settableStatuses are the transitions a seller may request directly.
// Completion and snoozing have their own operations.
var settableStatuses = map[domain.TaskStatus]bool{
	domain.StatusPending:    true,
	domain.StatusInProgress: true,
	domain.StatusDismissed:  true,
	domain.StatusSkipped:    true,
}

func (s *completionService) SetStatus(ctx context.Context, userID, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !settableStatuses[status] {
		return nil, fmt.Errorf("%w: status %q cannot be set directly", ErrValidation, status)
	}
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Status = status
	task.UpdatedAt = domain.NewTimestamp(s.now())
	if err := s.tasks.Upsert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *completionService) AnalyzeNotes(ctx context.Context, in intelligence.NotesInput) *intelligence.NotesAnalysis {
	return s.analyzer.AnalyzeTaskNotes(ctx, in)
}

func (s *completionService) ownedTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := ownedBy(task, userID); err != nil {
		return nil, err
	}
	task.Normalize()
	return task, nil
}
