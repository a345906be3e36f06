package service

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
	"github.com/stefanorainone/sales-management/internal/llm"
	"github.com/stefanorainone/sales-management/internal/lock"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/storage"
	"github.com/stefanorainone/sales-management/internal/testutil"
	"github.com/stretchr/testify/require"
)

type countingLLM struct {
	response string
	err      error
	calls    atomic.Int32
}

func (c *countingLLM) Generate(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &llm.GenerateResponse{Text: c.response}, nil
}

func (c *countingLLM) Available(context.Context) bool { return c.err == nil }

// countingUoW counts transactions opened by a use case.
type countingUoW struct {
	inner db.UnitOfWork
	count atomic.Int32
}

func (u *countingUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.count.Add(1)
	return u.inner.WithinTx(ctx, fn)
}

type testEnv struct {
	db           *sql.DB
	uow          *countingUoW
	tasks        *repository.SQLiteTaskRepo
	insights     *repository.SQLiteInsightRepo
	users        *repository.SQLiteUserRepo
	deals        *repository.SQLiteDealRepo
	clients      *repository.SQLiteClientRepo
	activities   *repository.SQLiteActivityRepo
	instructions *repository.SQLiteInstructionRepo
	fs           afero.Fs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:           database,
		uow:          &countingUoW{inner: testutil.NewTestUoW(database)},
		tasks:        repository.NewSQLiteTaskRepo(database),
		insights:     repository.NewSQLiteInsightRepo(database),
		users:        repository.NewSQLiteUserRepo(database),
		deals:        repository.NewSQLiteDealRepo(database),
		clients:      repository.NewSQLiteClientRepo(database),
		activities:   repository.NewSQLiteActivityRepo(database),
		instructions: repository.NewSQLiteInstructionRepo(database),
		fs:           afero.NewMemMapFs(),
	}
}

func (e *testEnv) fetcher() *intelligence.InstructionsFetcher {
	return intelligence.NewInstructionsFetcher(e.instructions, nil)
}

func (e *testEnv) generation(client llm.LLMClient) TaskGenerationService {
	return NewTaskGenerationService(e.tasks, e.uow, intelligence.NewTaskDrafter(client, nil), e.fetcher(), lock.NewMemoryLocker(), nil)
}

func (e *testEnv) insightService(client llm.LLMClient) InsightService {
	return NewInsightService(e.insights, e.uow, intelligence.NewInsightDrafter(client, nil), e.fetcher(), nil)
}

func (e *testEnv) completion(store storage.AttachmentStore, client llm.LLMClient) CompletionService {
	if store == nil {
		store = storage.NewFsStore(e.fs, "/files")
	}
	return NewCompletionService(e.tasks, e.clients, e.deals, store, intelligence.NewNotesAnalyzer(client, nil), nil)
}

func (e *testEnv) loader() *PipelineLoader {
	return NewPipelineLoader(e.users, e.deals, e.clients, e.activities, e.tasks)
}

func (e *testEnv) addTask(t *testing.T, task *domain.Task) {
	t.Helper()
	require.NoError(t, e.tasks.Create(context.Background(), task))
}

func (e *testEnv) addUser(t *testing.T, u *domain.User) {
	t.Helper()
	require.NoError(t, e.users.Upsert(context.Background(), u))
}

func (e *testEnv) userTasks(t *testing.T, userID string) []*domain.Task {
	t.Helper()
	list, err := e.tasks.List(context.Background(), repository.TaskFilter{UserID: userID})
	require.NoError(t, err)
	return list
}
