package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/storage"
	"github.com/stefanorainone/sales-management/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Upload(context.Context, string, []storage.File) ([]string, error) {
	return nil, errors.New("bucket unreachable")
}

func completeRequest(task *domain.Task) CompleteTaskRequest {
	return CompleteTaskRequest{
		UserID:  task.UserID,
		TaskID:  task.ID,
		Outcome: domain.OutcomeSuccess,
		Notes:   "The principal wants a demo for two classes.",
		Files:   []storage.File{{Name: "report.pdf", Content: strings.NewReader("report")}},
	}
}

func TestComplete_StoresAttachmentsAndAnalysis(t *testing.T) {
	env := newTestEnv(t)
	client := testutil.NewTestClient("u1", "Liceo Galilei", domain.EntitySchool)
	require.NoError(t, env.clients.Upsert(context.Background(), client))
	task := testutil.NewTestTask("u1", "Call Liceo Galilei")
	task.ClientID = client.ID
	env.addTask(t, task)

	llmClient := &countingLLM{response: `{"analysis":"Promising lead.","suggestedNextSteps":["Book the demo"]}`}
	req := completeRequest(task)
	req.ActualDuration = 12
	res, err := env.completion(nil, llmClient).Complete(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, res.Task.Status)
	assert.NotNil(t, res.Task.CompletedAt)
	assert.Equal(t, []string{"/files/tasks/" + task.ID + "/report.pdf"}, res.Task.Attachments)
	assert.Equal(t, "Promising lead.", res.Task.AIAnalysis)
	assert.False(t, res.Analysis.Degraded)
	assert.Empty(t, res.UploadError)

	stored, err := env.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, domain.OutcomeSuccess, stored.Outcome)
	assert.Equal(t, 12, stored.ActualDuration)

	exists, err := afero.Exists(env.fs, "/tasks/"+task.ID+"/report.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestComplete_UploadFailure(t *testing.T) {
	env := newTestEnv(t)
	task := testutil.NewTestTask("u1", "Send proposal")
	env.addTask(t, task)
	svc := env.completion(failingStore{}, nil)

	_, err := svc.Complete(context.Background(), completeRequest(task))
	require.ErrorIs(t, err, ErrUploadFailed)

	stored, err := env.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status, "task must stay open when the upload fails")

	req := completeRequest(task)
	req.ProceedWithoutAttachments = true
	res, err := svc.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, res.Task.Status)
	assert.Empty(t, res.Task.Attachments)
	assert.Contains(t, res.UploadError, "bucket unreachable")
	assert.True(t, res.Analysis.Degraded)
	assert.Equal(t, intelligence.AnalysisFailedMessage, res.Analysis.Analysis)
	assert.Empty(t, res.Task.AIAnalysis)
}

func TestComplete_OtherSellersTaskForbidden(t *testing.T) {
	env := newTestEnv(t)
	task := testutil.NewTestTask("u1", "Call")
	env.addTask(t, task)

	req := completeRequest(task)
	req.UserID = "u2"
	_, err := env.completion(nil, nil).Complete(context.Background(), req)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestComplete_Validation(t *testing.T) {
	env := newTestEnv(t)
	task := testutil.NewTestTask("u1", "Call")
	env.addTask(t, task)

	req := completeRequest(task)
	req.Outcome = "great"
	_, err := env.completion(nil, nil).Complete(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)

	req = completeRequest(task)
	req.TaskID = "missing"
	_, err = env.completion(nil, nil).Complete(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSnooze_RecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	scheduled := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	task := testutil.NewTestTask("u1", "Call", testutil.WithScheduledAt(scheduled))
	env.addTask(t, task)
	svc := env.completion(nil, nil)

	first := scheduled.Add(24 * time.Hour)
	second := first.Add(24 * time.Hour)
	_, err := svc.Snooze(context.Background(), SnoozeRequest{UserID: "u1", TaskID: task.ID, Until: first, Reason: "client away"})
	require.NoError(t, err)
	got, err := svc.Snooze(context.Background(), SnoozeRequest{UserID: "u1", TaskID: task.ID, Until: second})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSnoozed, got.Status)
	require.NotNil(t, got.OriginalScheduledAt)
	assert.True(t, got.OriginalScheduledAt.Equal(scheduled))
	assert.True(t, got.ScheduledAt.Equal(second))
	require.Len(t, got.PostponeHistory, 2)
	assert.Equal(t, "client away", got.PostponeHistory[0].Reason)
	assert.True(t, got.PostponeHistory[1].FromDate.Equal(first))

	_, err = svc.Snooze(context.Background(), SnoozeRequest{UserID: "u1", TaskID: task.ID})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSnooze_RejectsPastDate(t *testing.T) {
	env := newTestEnv(t)
	task := testutil.NewTestTask("u1", "Call")
	env.addTask(t, task)

	_, err := env.completion(nil, nil).Snooze(context.Background(), SnoozeRequest{
		UserID: "u1", TaskID: task.ID, Until: time.Now().Add(-time.Hour),
	})
	require.ErrorIs(t, err, ErrValidation)

	stored, err := env.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Empty(t, stored.PostponeHistory)
}

func TestSetStatus(t *testing.T) {
	env := newTestEnv(t)
	task := testutil.NewTestTask("u1", "Call")
	env.addTask(t, task)
	svc := env.completion(nil, nil)

	got, err := svc.SetStatus(context.Background(), "u1", task.ID, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)

	_, err = svc.SetStatus(context.Background(), "u1", task.ID, domain.StatusCompleted)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetStatus(context.Background(), "u2", task.ID, domain.StatusDismissed)
	assert.ErrorIs(t, err, ErrForbidden)
}
