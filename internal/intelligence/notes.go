package intelligence

import (
	"context"
	"log/slog"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/llm"
)

// NotesInput is the completion report a seller filed for one task.
type NotesInput struct {
	TaskType   domain.TaskType    `json:"taskType"`
	TaskTitle  string             `json:"taskTitle,omitempty"`
	ClientName string             `json:"clientName,omitempty"`
	DealTitle  string             `json:"dealTitle,omitempty"`
	Notes      string             `json:"notes"`
	Results    string             `json:"results,omitempty"`
	Outcome    domain.TaskOutcome `json:"outcome,omitempty"`
}

type DealUpdates struct {
	Stage      domain.DealStage `json:"stage,omitempty"`
	NextAction string           `json:"nextAction,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

type ClientUpdates struct {
	Status domain.ClientStatus `json:"status,omitempty"`
	Notes  string              `json:"notes,omitempty"`
}

type TaskSuggestion struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	DaysFromNow float64 `json:"daysFromNow,omitempty"`
}

// NotesAnalysis is the coach's reading of a completion report. Degraded is
// set when the analysis could not be produced.
type NotesAnalysis struct {
	Analysis           string           `json:"analysis"`
	SuggestedNextSteps []string         `json:"suggestedNextSteps"`
	DealUpdates        *DealUpdates     `json:"dealUpdates,omitempty"`
	ClientUpdates      *ClientUpdates   `json:"clientUpdates,omitempty"`
	NewTaskSuggestions []TaskSuggestion `json:"newTaskSuggestions"`
	Degraded           bool             `json:"degraded"`
}

// AnalysisFailedMessage is the fixed text of a degraded analysis.
const AnalysisFailedMessage = "Analysis failed: the notes could not be analyzed right now."

// FailedAnalysis returns the fixed degraded analysis.
func FailedAnalysis() *NotesAnalysis {
	return &NotesAnalysis{
		Analysis:           AnalysisFailedMessage,
		SuggestedNextSteps: []string{},
		NewTaskSuggestions: []TaskSuggestion{},
		Degraded:           true,
	}
}

// NotesAnalyzer summarizes completion notes. It never fails; problems
// yield FailedAnalysis.
type NotesAnalyzer interface {
	AnalyzeTaskNotes(ctx context.Context, in NotesInput) *NotesAnalysis
}

type notesAnalyzer struct {
	client llm.LLMClient
	logger *slog.Logger
}

// NewNotesAnalyzer creates a NotesAnalyzer. With a nil client every call
// returns FailedAnalysis.
func NewNotesAnalyzer(client llm.LLMClient, logger *slog.Logger) NotesAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &notesAnalyzer{client: client, logger: logger}
}

func (a *notesAnalyzer) AnalyzeTaskNotes(ctx context.Context, in NotesInput) *NotesAnalysis {
	if a.client == nil {
		return FailedAnalysis()
	}

	prompt, err := buildNotesPrompt(in)
	if err != nil {
		return FailedAnalysis()
	}
	resp, err := a.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskNotesAnalysis,
		SystemPrompt: notesSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		a.logger.WarnContext(ctx, "notes analysis failed", "error", err.Error())
		return FailedAnalysis()
	}

	analysis, err := llm.ExtractValidated[NotesAnalysis](resp.Text, notesSchema, nil)
	if err != nil {
		a.logger.WarnContext(ctx, "notes analysis unparseable", "error", err.Error())
		return FailedAnalysis()
	}
	if analysis.SuggestedNextSteps == nil {
		analysis.SuggestedNextSteps = []string{}
	}
	if analysis.NewTaskSuggestions == nil {
		analysis.NewTaskSuggestions = []TaskSuggestion{}
	}
	analysis.Degraded = false
	return &analysis
}
