package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stefanorainone/sales-management/internal/auth"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
	"github.com/stefanorainone/sales-management/internal/lock"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/service"
	"github.com/stefanorainone/sales-management/internal/storage"
	"github.com/stefanorainone/sales-management/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Upload(context.Context, string, []storage.File) ([]string, error) {
	return nil, errors.New("disk full")
}

type testServer struct {
	router      *gin.Engine
	tasks       *repository.SQLiteTaskRepo
	sellerToken string
	adminToken  string
}

func newTestServer(t *testing.T, store storage.AttachmentStore) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	tasks := repository.NewSQLiteTaskRepo(database)
	users := repository.NewSQLiteUserRepo(database)
	tokens := repository.NewSQLiteTokenRepo(database)
	deals := repository.NewSQLiteDealRepo(database)
	clients := repository.NewSQLiteClientRepo(database)
	activities := repository.NewSQLiteActivityRepo(database)
	insights := repository.NewSQLiteInsightRepo(database)
	instructions := repository.NewSQLiteInstructionRepo(database)

	ctx := context.Background()
	require.NoError(t, users.Upsert(ctx, testutil.NewTestUser("seller", domain.RoleSeller)))
	require.NoError(t, users.Upsert(ctx, testutil.NewTestUser("boss", domain.RoleAdmin)))
	sellerToken, err := auth.IssueToken(ctx, tokens, users, "seller", "test")
	require.NoError(t, err)
	adminToken, err := auth.IssueToken(ctx, tokens, users, "boss", "test")
	require.NoError(t, err)

	fsStore := storage.NewFsStore(afero.NewMemMapFs(), "/files")
	if store == nil {
		store = fsStore
	}

	fetcher := intelligence.NewInstructionsFetcher(instructions, nil)
	generation := service.NewTaskGenerationService(tasks, uow, intelligence.NewTaskDrafter(nil, nil), fetcher, lock.NewMemoryLocker(), nil)
	insightSvc := service.NewInsightService(insights, uow, intelligence.NewInsightDrafter(nil, nil), fetcher, nil)
	loader := service.NewPipelineLoader(users, deals, clients, activities, tasks)

	svc := Services{
		Loader:       loader,
		Generation:   generation,
		Insights:     insightSvc,
		Briefings:    service.NewBriefingService(generation, insightSvc),
		Completion:   service.NewCompletionService(tasks, clients, deals, store, intelligence.NewNotesAnalyzer(nil, nil), nil),
		Admin:        service.NewTaskAdminService(tasks, users),
		Custom:       service.NewCustomGenerationService(loader, uow, intelligence.NewTaskDrafter(nil, nil), fetcher),
		Analytics:    service.NewAnalyticsService(tasks, activities, deals),
		Instructions: service.NewInstructionService(instructions, users),
	}
	return &testServer{
		router:      NewRouter(svc, auth.NewAuthenticator(tokens, users, nil), fsStore.Handler(), nil),
		tasks:       tasks,
		sellerToken: sellerToken,
		adminToken:  adminToken,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/api/tasks", "/api/insights", "/api/analytics", "/api/admin/tasks"} {
		w := s.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Contains(t, w.Body.String(), `"error"`)
	}
}

func TestAdminRoutesAreRoleGated(t *testing.T) {
	s := newTestServer(t, nil)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/admin/tasks"},
		{http.MethodPost, "/api/admin/tasks"},
		{http.MethodPatch, "/api/admin/tasks/x"},
		{http.MethodDelete, "/api/admin/tasks/x"},
		{http.MethodGet, "/api/admin/instructions?userId=seller"},
		{http.MethodPost, "/api/admin/instructions"},
		{http.MethodPost, "/api/admin/instructions/x/deactivate"},
		{http.MethodPost, "/api/ai/generate-tasks-custom"},
		{http.MethodPost, "/api/ai/confirm-tasks"},
	}
	for _, rt := range routes {
		w := s.do(t, rt.method, rt.path, s.sellerToken, map[string]any{})
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", rt.method, rt.path)

		w = s.do(t, rt.method, rt.path, s.adminToken, map[string]any{})
		assert.NotEqual(t, http.StatusForbidden, w.Code, "%s %s", rt.method, rt.path)
		assert.NotEqual(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
}

func TestDailyTasks_GeneratesOnceThenReturnsExisting(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/ai/daily-tasks", s.sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[service.TaskGenerationResult](t, w)
	assert.Equal(t, intelligence.SourceMock, first.Source)
	assert.Len(t, first.Tasks, 4)

	w = s.do(t, http.MethodPost, "/api/ai/daily-tasks", s.sellerToken, map[string]string{"date": "2026-03-10"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[service.TaskGenerationResult](t, w)
	assert.Equal(t, intelligence.SourceExisting, second.Source)

	w = s.do(t, http.MethodPost, "/api/ai/daily-tasks", s.sellerToken, map[string]string{"date": "10/03/2026"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDailyBriefingAndInsights(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/ai/daily-briefing", s.sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	b := decode[domain.DailyBriefing](t, w)
	assert.Equal(t, "seller", b.UserID)
	assert.Equal(t, len(b.Tasks), b.TasksCount)
	assert.GreaterOrEqual(t, len(b.Insights), 2)

	w = s.do(t, http.MethodGet, "/api/insights", s.sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[struct {
		Insights []domain.Insight `json:"insights"`
	}](t, w)
	require.NotEmpty(t, listed.Insights)

	w = s.do(t, http.MethodPost, "/api/insights/"+listed.Insights[0].ID+"/dismiss", s.adminToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodPost, "/api/insights/"+listed.Insights[0].ID+"/dismiss", s.sellerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodPost, "/api/insights/missing/dismiss", s.sellerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/ai/insights", s.sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, intelligence.SourceMock, decode[service.InsightGenerationResult](t, w).Source)
}

func TestCompleteTask_Multipart(t *testing.T) {
	s := newTestServer(t, nil)
	task := testutil.NewTestTask("seller", "Call Hotel Miramare")
	require.NoError(t, s.tasks.Create(context.Background(), task))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("outcome", "success"))
	require.NoError(t, mw.WriteField("notes", "They want a headset demo next week."))
	require.NoError(t, mw.WriteField("actualDuration", "15"))
	fw, err := mw.CreateFormFile("files", "minutes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("meeting minutes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/"+task.ID+"/complete", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.sellerToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode[service.CompletionResult](t, w)
	assert.Equal(t, domain.StatusCompleted, res.Task.Status)
	require.Equal(t, []string{"/files/tasks/" + task.ID + "/minutes.txt"}, res.Task.Attachments)
	assert.True(t, res.Analysis.Degraded)

	w = s.do(t, http.MethodGet, res.Task.Attachments[0], "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "meeting minutes", w.Body.String())
}

func TestCompleteTask_UploadFailureIs422(t *testing.T) {
	s := newTestServer(t, brokenStore{})
	task := testutil.NewTestTask("seller", "Send proposal")
	require.NoError(t, s.tasks.Create(context.Background(), task))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("outcome", "partial"))
	fw, err := mw.CreateFormFile("files", "proposal.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/"+task.ID+"/complete", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.sellerToken)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, true, body["canProceedWithoutAttachments"])

	w = s.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/complete", s.sellerToken, map[string]any{
		"outcome": "partial", "proceedWithoutAttachments": true,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCompleteTask_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	task := testutil.NewTestTask("seller", "Call")
	require.NoError(t, s.tasks.Create(context.Background(), task))

	w := s.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/complete", s.sellerToken, map[string]any{"outcome": "great"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/tasks/missing/complete", s.sellerToken, map[string]any{"outcome": "success"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/complete", s.adminToken, map[string]any{"outcome": "success"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSnoozeStatusAndList(t *testing.T) {
	s := newTestServer(t, nil)
	task := testutil.NewTestTask("seller", "Call")
	require.NoError(t, s.tasks.Create(context.Background(), task))

	w := s.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/snooze", s.sellerToken, map[string]any{
		"until": "2030-01-02T09:00:00Z", "reason": "client on holiday",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.StatusSnoozed, decode[domain.Task](t, w).Status)

	w = s.do(t, http.MethodPost, "/api/tasks/"+task.ID+"/status", s.sellerToken, map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/tasks?status=in_progress", s.sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[struct {
		Tasks []domain.Task `json:"tasks"`
	}](t, w)
	require.Len(t, listed.Tasks, 1)
	assert.Equal(t, task.ID, listed.Tasks[0].ID)

	w = s.do(t, http.MethodGet, "/api/tasks?status=bogus", s.sellerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeNotes(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodPost, "/api/ai/analyze-notes", s.sellerToken, map[string]any{"taskType": "call", "notes": "Good call."})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), intelligence.AnalysisFailedMessage)

	w = s.do(t, http.MethodPost, "/api/ai/analyze-notes", s.sellerToken, map[string]any{"taskType": "call"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsAccess(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/analytics", s.sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "seller", decode[service.Analytics](t, w).UserID)

	w = s.do(t, http.MethodGet, "/api/analytics?userId=boss", s.sellerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/analytics?userId=seller&timePeriod=month", s.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/analytics?timePeriod=decade", s.sellerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminTaskLifecycle(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/admin/tasks", s.adminToken, map[string]any{
		"userId": "seller", "type": "demo", "title": "VR demo at Liceo Volta", "priority": "high",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Task](t, w)

	w = s.do(t, http.MethodPatch, "/api/admin/tasks/"+created.ID, s.adminToken, map[string]any{"title": "VR demo, two classes"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "VR demo, two classes", decode[domain.Task](t, w).Title)

	w = s.do(t, http.MethodGet, "/api/admin/tasks?userId=seller", s.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), created.ID))

	w = s.do(t, http.MethodDelete, "/api/admin/tasks/"+created.ID, s.adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/api/admin/tasks/"+created.ID, s.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/admin/tasks", s.adminToken, map[string]any{"userId": "seller", "type": "party", "title": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminInstructionsAndCustomGeneration(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/admin/instructions", s.adminToken, map[string]any{
		"userId": "seller", "instructions": "Focus on hotels", "priority": "high",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	in := decode[domain.AICustomInstructions](t, w)
	assert.Equal(t, "boss", in.CreatedBy)

	w = s.do(t, http.MethodGet, "/api/admin/instructions", s.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/admin/instructions/"+in.ID+"/deactivate", s.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[domain.AICustomInstructions](t, w).Active)

	w = s.do(t, http.MethodPost, "/api/ai/generate-tasks-custom", s.adminToken, map[string]any{
		"userId": "seller", "prompt": "Book three school demos", "count": 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	preview := decode[service.TaskGenerationResult](t, w)
	require.Len(t, preview.Tasks, 3)

	w = s.do(t, http.MethodPost, "/api/ai/confirm-tasks", s.adminToken, map[string]any{
		"userId": "seller", "tasks": preview.Tasks,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	listed, err := s.tasks.List(context.Background(), repository.TaskFilter{UserID: "seller"})
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}
