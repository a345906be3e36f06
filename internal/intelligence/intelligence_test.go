package intelligence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/llm"
	"github.com/stefanorainone/sales-management/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLMClient struct {
	response string
	err      error
	calls    int
	last     llm.GenerateRequest
}

func (m *mockLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.calls++
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "test"}, nil
}

func (m *mockLLMClient) Available(context.Context) bool { return m.err == nil }

var planDay = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func testSnapshot() PipelineSnapshot {
	now := planDay.Add(8 * time.Hour)
	demo := *testutil.NewTestDeal("u1", "Liceo Galilei", testutil.WithStage(domain.StageDemoScheduled), testutil.WithEntityType(domain.EntitySchool), testutil.WithDealUpdatedAt(now))
	demo.ID, demo.Value = "deal-demo", 3000
	prop := *testutil.NewTestDeal("u1", "Hotel Miramare", testutil.WithStage(domain.StageProposal), testutil.WithEntityType(domain.EntityHotel), testutil.WithDealUpdatedAt(now))
	prop.ID, prop.Value = "deal-prop", 8000
	won := *testutil.NewTestDeal("u1", "Museo Civico", testutil.WithStage(domain.StageWon), testutil.WithDealUpdatedAt(now))
	won.ID = "deal-won"
	client := *testutil.NewTestClient("u1", "Comune di Lecce", domain.EntityMunicipality)
	client.ID = "client-1"
	return PipelineSnapshot{
		UserID:   "u1",
		UserName: "Giulia",
		Date:     planDay,
		Now:      now,
		Deals:    []domain.Deal{demo, prop, won},
		Clients:  []domain.Client{client},
	}
}

func stripIdentity(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		t.ID = ""
		out[i] = t
	}
	return out
}

func TestMockTaskGenerator_Deterministic(t *testing.T) {
	snap := testSnapshot()
	a, err := MockTaskGenerator{}.GenerateTasks(context.Background(), snap)
	require.NoError(t, err)
	b, err := MockTaskGenerator{}.GenerateTasks(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	require.GreaterOrEqual(t, len(a), minDailyTasks)
	assert.LessOrEqual(t, len(a), maxDailyTasks)

	// Highest value open deal first; won deals get no task.
	assert.Equal(t, "deal-prop", a[0].DealID)
	assert.Equal(t, domain.PriorityHigh, a[0].Priority)
	assert.Equal(t, "deal-demo", a[1].DealID)
	assert.Equal(t, domain.TaskDemo, a[1].Type)
	assert.Equal(t, domain.PriorityCritical, a[1].Priority)
	assert.Equal(t, "client-1", a[2].ClientID)
	for _, task := range a {
		assert.NotEqual(t, "deal-won", task.DealID)
		assert.NotEmpty(t, task.Objectives)
		assert.NotNil(t, task.ExpectedOutputFormat)
	}
}

func TestMockTaskGenerator_PadsEmptyPipeline(t *testing.T) {
	tasks, err := MockTaskGenerator{}.GenerateTasks(context.Background(), PipelineSnapshot{UserID: "u1", Date: planDay})
	require.NoError(t, err)
	assert.Len(t, tasks, minDailyTasks)
}

func TestMockTaskGenerator_ExactCount(t *testing.T) {
	snap := testSnapshot()
	snap.TaskCount = 2
	tasks, err := MockTaskGenerator{}.GenerateTasks(context.Background(), snap)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	snap.TaskCount = 7
	tasks, err = MockTaskGenerator{}.GenerateTasks(context.Background(), snap)
	require.NoError(t, err)
	assert.Len(t, tasks, 7)
}

func TestTaskDrafter_FallbackMatchesMock(t *testing.T) {
	snap := testSnapshot()
	failing := &mockLLMClient{err: llm.ErrUnavailable}

	draft := NewTaskDrafter(failing, nil).Draft(context.Background(), snap)
	noBackend := NewTaskDrafter(nil, nil).Draft(context.Background(), snap)

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, SourceMock, draft.Source)
	assert.True(t, draft.Source.Degraded())
	assert.Contains(t, draft.FallbackReason, "unavailable")
	assert.Equal(t, ErrNoBackend.Error(), noBackend.FallbackReason)
	assert.Equal(t, stripIdentity(noBackend.Tasks), stripIdentity(draft.Tasks))

	for _, task := range draft.Tasks {
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, "u1", task.UserID)
		assert.Equal(t, domain.StatusPending, task.Status)
		assert.False(t, task.ScheduledAt.IsZero())
	}
}

func TestTaskDrafter_MalformedOutputFallsBack(t *testing.T) {
	client := &mockLLMClient{response: "Sure! Here are your tasks: none today."}
	draft := NewTaskDrafter(client, nil).Draft(context.Background(), testSnapshot())
	assert.Equal(t, SourceMock, draft.Source)
	assert.NotEmpty(t, draft.Tasks)
}

func TestTaskDrafter_SchemaViolationFallsBack(t *testing.T) {
	client := &mockLLMClient{response: `[{"type":"party","title":"x","description":"y","priority":"high"}]`}
	draft := NewTaskDrafter(client, nil).Draft(context.Background(), testSnapshot())
	assert.Equal(t, SourceMock, draft.Source)
	assert.Contains(t, draft.FallbackReason, "invalid")
}

func TestTaskDrafter_LiveOutputStamped(t *testing.T) {
	client := &mockLLMClient{response: "```json\n" + `[
		{"type":"call","title":"Call Hotel Miramare","description":"Chase the proposal","priority":"high",
		 "scheduledAt":"10:30","estimatedDuration":45,"dealId":"deal-prop","clientId":"made-up"},
		{"type":"email","title":"Email Liceo","description":"Confirm demo","priority":"medium"},
		{"type":"research","title":"Research Comune di Lecce","description":"Find the culture office","priority":"low","clientId":"client-1"},
		{"type":"follow_up","title":"Follow up Museo Civico","description":"Ask for a referral","priority":"low"}
	]` + "\n```"}

	draft := NewTaskDrafter(client, nil).Draft(context.Background(), testSnapshot())

	require.Equal(t, SourceLLM, draft.Source)
	assert.Empty(t, draft.FallbackReason)
	assert.Equal(t, llm.TaskDailyTasks, client.last.Task)
	require.Len(t, draft.Tasks, 4)
	assert.Equal(t, "client-1", draft.Tasks[2].ClientID)

	call := draft.Tasks[0]
	assert.Equal(t, 15, call.EstimatedDuration)
	assert.Equal(t, "deal-prop", call.DealID)
	assert.Empty(t, call.ClientID)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC), call.ScheduledAt.Time)
	assert.Equal(t, domain.StatusPending, call.Status)

	email := draft.Tasks[1]
	assert.Equal(t, 5, email.EstimatedDuration)
	assert.Equal(t, slotTime(planDay, 1), email.ScheduledAt.Time)
	assert.NotNil(t, email.ExpectedOutputFormat)
}

func TestTaskDrafter_ShortBatchFallsBack(t *testing.T) {
	client := &mockLLMClient{response: `[
		{"type":"call","title":"Call Hotel Miramare","description":"Chase the proposal","priority":"high"},
		{"type":"email","title":"Email Liceo","description":"Confirm demo","priority":"medium"}
	]`}

	draft := NewTaskDrafter(client, nil).Draft(context.Background(), testSnapshot())

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, SourceMock, draft.Source)
	assert.Contains(t, draft.FallbackReason, "got 2")
	assert.GreaterOrEqual(t, len(draft.Tasks), minDailyTasks)
	assert.LessOrEqual(t, len(draft.Tasks), maxDailyTasks)
}

func TestTaskDrafter_ExactCountEnforced(t *testing.T) {
	snap := testSnapshot()
	snap.TaskCount = 3
	snap.AdminPrompt = "Focus on hotels"
	client := &mockLLMClient{response: `[{"type":"call","title":"a","description":"b","priority":"high"}]`}

	draft := NewTaskDrafter(client, nil).Draft(context.Background(), snap)

	assert.Equal(t, llm.TaskCustomTasks, client.last.Task)
	assert.Contains(t, client.last.UserPrompt, "Focus on hotels")
	assert.Contains(t, client.last.UserPrompt, "EXACTLY 3")
	assert.Equal(t, SourceMock, draft.Source)
	assert.Len(t, draft.Tasks, 3)
}

func TestInsightDrafter_Fallback(t *testing.T) {
	snap := testSnapshot()
	snap.Deals[0].UpdatedAt = domain.NewTimestamp(snap.Now.Add(-10 * 24 * time.Hour))

	draft := NewInsightDrafter(&mockLLMClient{err: errors.New("boom")}, nil).Draft(context.Background(), snap)

	assert.Equal(t, SourceMock, draft.Source)
	require.GreaterOrEqual(t, len(draft.Insights), 2)
	assert.LessOrEqual(t, len(draft.Insights), 4)
	assert.Equal(t, domain.InsightWarning, draft.Insights[0].Type)
	assert.Equal(t, "deal-demo", draft.Insights[0].RelatedDealID)
	assert.Equal(t, domain.InsightOpportunity, draft.Insights[1].Type)
	for _, in := range draft.Insights {
		assert.NotEmpty(t, in.ID)
		assert.Equal(t, "u1", in.UserID)
		assert.False(t, in.Dismissed)
	}
}

func TestInsightDrafter_Live(t *testing.T) {
	client := &mockLLMClient{response: `[
		{"type":"opportunity","title":"Hotel deal","message":"Close it","priority":"high","actionable":true},
		{"type":"tip","title":"Mornings","message":"Call early"}
	]`}
	draft := NewInsightDrafter(client, nil).Draft(context.Background(), testSnapshot())
	assert.Equal(t, SourceLLM, draft.Source)
	require.Len(t, draft.Insights, 2)
	assert.Equal(t, domain.LevelMedium, draft.Insights[1].Priority)
}

func TestInsightDrafter_DropsUnknownRefs(t *testing.T) {
	snap := testSnapshot()
	snap.CompletedToday = []domain.Task{{ID: "task-done"}}
	client := &mockLLMClient{response: `[
		{"type":"warning","title":"Stalled","message":"Call them","relatedDealId":"deal-demo","relatedClientId":"client-404","relatedTaskId":"task-done"},
		{"type":"tip","title":"Follow up","message":"Soon","relatedDealId":"deal-404","relatedClientId":"client-1","relatedTaskId":"task-404"}
	]`}

	draft := NewInsightDrafter(client, nil).Draft(context.Background(), snap)

	require.Equal(t, SourceLLM, draft.Source)
	require.Len(t, draft.Insights, 2)
	first, second := draft.Insights[0], draft.Insights[1]
	assert.Equal(t, "deal-demo", first.RelatedDealID)
	assert.Empty(t, first.RelatedClientID)
	assert.Equal(t, "task-done", first.RelatedTaskID)
	assert.Empty(t, second.RelatedDealID)
	assert.Equal(t, "client-1", second.RelatedClientID)
	assert.Empty(t, second.RelatedTaskID)
}

func TestNotesAnalyzer(t *testing.T) {
	in := NotesInput{TaskType: domain.TaskCall, ClientName: "Hotel Miramare", Notes: "They liked the offer", Outcome: domain.OutcomeSuccess}

	t.Run("no backend", func(t *testing.T) {
		got := NewNotesAnalyzer(nil, nil).AnalyzeTaskNotes(context.Background(), in)
		assert.True(t, got.Degraded)
		assert.Equal(t, AnalysisFailedMessage, got.Analysis)
		assert.Empty(t, got.SuggestedNextSteps)
	})

	t.Run("backend error", func(t *testing.T) {
		got := NewNotesAnalyzer(&mockLLMClient{err: llm.ErrTimeout}, nil).AnalyzeTaskNotes(context.Background(), in)
		assert.Equal(t, FailedAnalysis(), got)
	})

	t.Run("success", func(t *testing.T) {
		client := &mockLLMClient{response: `{"analysis":"Strong call.","suggestedNextSteps":["Send contract"],
			"dealUpdates":{"stage":"negotiation"},"newTaskSuggestions":[{"type":"email","title":"Send contract","daysFromNow":1}]}`}
		got := NewNotesAnalyzer(client, nil).AnalyzeTaskNotes(context.Background(), in)
		assert.False(t, got.Degraded)
		assert.Equal(t, "Strong call.", got.Analysis)
		require.NotNil(t, got.DealUpdates)
		assert.Equal(t, domain.StageNegotiation, got.DealUpdates.Stage)
		assert.Nil(t, got.ClientUpdates)
		assert.Len(t, got.NewTaskSuggestions, 1)
		assert.Equal(t, llm.TaskNotesAnalysis, client.last.Task)
		assert.Contains(t, client.last.UserPrompt, "Hotel Miramare")
	})

	t.Run("invalid stage", func(t *testing.T) {
		client := &mockLLMClient{response: `{"analysis":"ok","dealUpdates":{"stage":"closed"}}`}
		got := NewNotesAnalyzer(client, nil).AnalyzeTaskNotes(context.Background(), in)
		assert.True(t, got.Degraded)
	})
}
