package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/storage"
)

var (
	// ErrValidation wraps request payload problems.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden is returned when a seller touches another seller's data.
	ErrForbidden = errors.New("forbidden")
	// ErrUploadFailed is returned when attachments could not be stored and
	// the caller did not agree to complete without them.
	ErrUploadFailed = errors.New("attachment upload failed")
)

// GenerateDailyTasksRequest is the pipeline context for one seller's day.
type GenerateDailyTasksRequest struct {
	UserID           string
	UserName         string
	Deals            []domain.Deal
	Clients          []domain.Client
	RecentActivities []domain.Activity
	CompletedToday   []domain.Task
	Date             time.Time
}

type TaskGenerationResult struct {
	Tasks          []domain.Task       `json:"tasks"`
	Source         intelligence.Source `json:"source"`
	FallbackReason string              `json:"fallbackReason,omitempty"`
}

type InsightGenerationResult struct {
	Insights       []domain.Insight    `json:"insights"`
	Source         intelligence.Source `json:"source"`
	FallbackReason string              `json:"fallbackReason,omitempty"`
}

type BriefingRequest struct {
	GenerateDailyTasksRequest
	YesterdayTasks []domain.Task
}

type CompleteTaskRequest struct {
	UserID                    string             `validate:"required"`
	TaskID                    string             `validate:"required"`
	Outcome                   domain.TaskOutcome `validate:"required,oneof=success partial failed no_response rescheduled"`
	Results                   string
	Notes                     string
	AdditionalNotes           string
	ActualDuration            int `validate:"gte=0,lte=1440"`
	Files                     []storage.File
	ProceedWithoutAttachments bool
}

type CompletionResult struct {
	Task     *domain.Task                `json:"task"`
	Analysis *intelligence.NotesAnalysis `json:"analysis,omitempty"`
	// UploadError is set when files were dropped because the caller chose
	// to proceed without them.
	UploadError string `json:"uploadError,omitempty"`
}

type SnoozeRequest struct {
	UserID string    `validate:"required"`
	TaskID string    `validate:"required"`
	Until  time.Time `validate:"required"`
	Reason string    `validate:"max=500"`
}

type CreateTaskRequest struct {
	UserID            string              `json:"userId" validate:"required"`
	Type              domain.TaskType     `json:"type" validate:"required,oneof=call email meeting demo follow_up research admin"`
	Title             string              `json:"title" validate:"required,max=200"`
	Description       string              `json:"description" validate:"max=4000"`
	Priority          domain.TaskPriority `json:"priority" validate:"omitempty,oneof=critical high medium low"`
	ScheduledAt       *time.Time          `json:"scheduledAt"`
	EstimatedDuration int                 `json:"estimatedDuration" validate:"gte=0,lte=480"`
	ClientID          string              `json:"clientId"`
	DealID            string              `json:"dealId"`
}

type CustomGenerationRequest struct {
	UserID string `json:"userId" validate:"required"`
	Prompt string `json:"prompt" validate:"required,max=4000"`
	Count  int    `json:"count" validate:"gte=0,lte=8"`
}

type ConfirmTasksRequest struct {
	UserID string        `json:"userId" validate:"required"`
	Tasks  []domain.Task `json:"tasks" validate:"min=1,max=20"`
}

type CreateInstructionRequest struct {
	UserID       string       `json:"userId" validate:"required"`
	CreatedBy    string       `json:"-"`
	Instructions string       `json:"instructions" validate:"required,max=4000"`
	Priority     domain.Level `json:"priority" validate:"omitempty,oneof=high medium low"`
	ExpiresAt    *time.Time   `json:"expiresAt"`
}

type TaskGenerationService interface {
	GenerateDailyTasks(ctx context.Context, req GenerateDailyTasksRequest) (*TaskGenerationResult, error)
}

type InsightService interface {
	GenerateInsights(ctx context.Context, req GenerateDailyTasksRequest) (*InsightGenerationResult, error)
	List(ctx context.Context, userID string, includeDismissed bool) ([]*domain.Insight, error)
	Dismiss(ctx context.Context, userID, insightID string) error
}

type BriefingService interface {
	GenerateDailyBriefing(ctx context.Context, req BriefingRequest) (*domain.DailyBriefing, error)
}

type CompletionService interface {
	Complete(ctx context.Context, req CompleteTaskRequest) (*CompletionResult, error)
	Snooze(ctx context.Context, req SnoozeRequest) (*domain.Task, error)
	SetStatus(ctx context.Context, userID, taskID string, status domain.TaskStatus) (*domain.Task, error)
	AnalyzeNotes(ctx context.Context, in intelligence.NotesInput) *intelligence.NotesAnalysis
}

type TaskAdminService interface {
	List(ctx context.Context, f repository.TaskFilter) ([]*domain.Task, error)
	Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)
	Update(ctx context.Context, id string, patch json.RawMessage) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type CustomGenerationService interface {
	Preview(ctx context.Context, req CustomGenerationRequest) (*TaskGenerationResult, error)
	Confirm(ctx context.Context, req ConfirmTasksRequest) ([]domain.Task, error)
}

type AnalyticsService interface {
	Compute(ctx context.Context, userID string, period TimePeriod) (*Analytics, error)
}

type InstructionService interface {
	List(ctx context.Context, userID string) ([]*domain.AICustomInstructions, error)
	Create(ctx context.Context, req CreateInstructionRequest) (*domain.AICustomInstructions, error)
	Deactivate(ctx context.Context, id string) (*domain.AICustomInstructions, error)
}
