package intelligence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/llm"
)

// TaskGenerator drafts a day's tasks from a pipeline snapshot. Drafts are
// unstamped: ids, owner, status and timestamps are assigned by the caller.
type TaskGenerator interface {
	GenerateTasks(ctx context.Context, snap PipelineSnapshot) ([]domain.Task, error)
}

// TaskDraft is the outcome of drafting, including which strategy produced it.
type TaskDraft struct {
	Tasks          []domain.Task
	Source         Source
	FallbackReason string
}

// ErrNoBackend marks drafts produced because no model is configured.
var ErrNoBackend = errors.New("no model backend configured")

// TaskDrafter runs the live generator and falls back to the mock on any
// failure. It never returns an error.
type TaskDrafter struct {
	live     TaskGenerator
	fallback TaskGenerator
	logger   *slog.Logger
}

// NewTaskDrafter picks the strategy once. A nil client means every draft
// comes from the mock generator.
func NewTaskDrafter(client llm.LLMClient, logger *slog.Logger) *TaskDrafter {
	if logger == nil {
		logger = slog.Default()
	}
	d := &TaskDrafter{fallback: MockTaskGenerator{}, logger: logger}
	if client != nil {
		d.live = NewLiveTaskGenerator(client)
	}
	return d
}

// Draft always yields a non-empty, stamped batch.
func (d *TaskDrafter) Draft(ctx context.Context, snap PipelineSnapshot) TaskDraft {
	reason := ErrNoBackend
	if d.live != nil {
		tasks, err := d.live.GenerateTasks(ctx, snap)
		if err == nil && len(tasks) > 0 {
			return TaskDraft{Tasks: stampTasks(tasks, snap), Source: SourceLLM}
		}
		if err == nil {
			err = fmt.Errorf("%w: empty task list", llm.ErrInvalidOutput)
		}
		reason = err
		d.logger.WarnContext(ctx, "task generation degraded to mock",
			"user_id", snap.UserID, "error", err.Error())
	}

	tasks, _ := d.fallback.GenerateTasks(ctx, snap)
	return TaskDraft{
		Tasks:          stampTasks(tasks, snap),
		Source:         SourceMock,
		FallbackReason: reason.Error(),
	}
}

type liveTaskGenerator struct {
	client llm.LLMClient
}

// NewLiveTaskGenerator creates a TaskGenerator backed by an LLM client.
func NewLiveTaskGenerator(client llm.LLMClient) TaskGenerator {
	return &liveTaskGenerator{client: client}
}

// taskDraftJSON mirrors one element of the model's task array.
type taskDraftJSON struct {
	Type                 string                       `json:"type"`
	Title                string                       `json:"title"`
	Description          string                       `json:"description"`
	AIReasoning          string                       `json:"aiReasoning"`
	Priority             string                       `json:"priority"`
	ScheduledAt          string                       `json:"scheduledAt"`
	EstimatedDuration    float64                      `json:"estimatedDuration"`
	ClientID             string                       `json:"clientId"`
	DealID               string                       `json:"dealId"`
	Script               string                       `json:"script"`
	TalkingPoints        []string                     `json:"talkingPoints"`
	Objectives           []string                     `json:"objectives"`
	Guidelines           []string                     `json:"guidelines"`
	BestPractices        []string                     `json:"bestPractices"`
	CommonMistakes       []string                     `json:"commonMistakes"`
	ExpectedOutputFormat *domain.ExpectedOutputFormat `json:"expectedOutputFormat"`
}

func (g *liveTaskGenerator) GenerateTasks(ctx context.Context, snap PipelineSnapshot) ([]domain.Task, error) {
	prompt, err := buildTaskPrompt(snap)
	if err != nil {
		return nil, err
	}

	task := llm.TaskDailyTasks
	if snap.AdminPrompt != "" || snap.TaskCount > 0 {
		task = llm.TaskCustomTasks
	}
	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         task,
		SystemPrompt: taskSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		return nil, err
	}

	drafts, err := llm.ExtractValidated(resp.Text, taskBatchSchema, validateTaskDrafts(snap))
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(drafts))
	for _, d := range drafts {
		t, err := d.toTask(snap.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", llm.ErrInvalidOutput, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func validateTaskDrafts(snap PipelineSnapshot) llm.SchemaValidator[[]taskDraftJSON] {
	return func(drafts []taskDraftJSON) error {
		switch {
		case snap.TaskCount > 0 && len(drafts) != snap.TaskCount:
			return fmt.Errorf("expected %d tasks, got %d", snap.TaskCount, len(drafts))
		case snap.TaskCount == 0 && (len(drafts) < minDailyTasks || len(drafts) > maxDailyTasks):
			return fmt.Errorf("expected %d to %d tasks, got %d", minDailyTasks, maxDailyTasks, len(drafts))
		}
		for i, d := range drafts {
			if d.ScheduledAt == "" {
				continue
			}
			if _, err := parseScheduledAt(d.ScheduledAt, snap.Date); err != nil {
				return fmt.Errorf("task %d: %v", i, err)
			}
		}
		return nil
	}
}

func (d taskDraftJSON) toTask(day time.Time) (domain.Task, error) {
	t := domain.Task{
		Type:                 domain.TaskType(d.Type),
		Title:                d.Title,
		Description:          d.Description,
		AIReasoning:          d.AIReasoning,
		Priority:             domain.TaskPriority(d.Priority),
		ClientID:             d.ClientID,
		DealID:               d.DealID,
		Script:               d.Script,
		TalkingPoints:        d.TalkingPoints,
		Objectives:           d.Objectives,
		Guidelines:           d.Guidelines,
		BestPractices:        d.BestPractices,
		CommonMistakes:       d.CommonMistakes,
		ExpectedOutputFormat: d.ExpectedOutputFormat,
		EstimatedDuration:    int(d.EstimatedDuration),
	}
	if d.ScheduledAt != "" {
		at, err := parseScheduledAt(d.ScheduledAt, day)
		if err != nil {
			return domain.Task{}, err
		}
		t.ScheduledAt = at
	}
	return t, nil
}

// parseScheduledAt accepts a full timestamp or a bare "15:04" clock time
// on the planned day.
func parseScheduledAt(s string, day time.Time) (domain.Timestamp, error) {
	if ts, err := domain.ParseTimestampString(s); err == nil {
		return ts, nil
	}
	clock, err := time.Parse("15:04", s)
	if err != nil {
		return domain.Timestamp{}, fmt.Errorf("unparseable scheduledAt %q", s)
	}
	y, m, dd := day.Date()
	return domain.NewTimestamp(time.Date(y, m, dd, clock.Hour(), clock.Minute(), 0, 0, day.Location())), nil
}
