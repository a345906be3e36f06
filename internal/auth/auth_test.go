package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tokens *repository.SQLiteTokenRepo
	users  *repository.SQLiteUserRepo
	router *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	database := testutil.NewTestDB(t)
	f := &fixture{
		tokens: repository.NewSQLiteTokenRepo(database),
		users:  repository.NewSQLiteUserRepo(database),
	}
	require.NoError(t, f.users.Upsert(context.Background(), testutil.NewTestUser("seller", domain.RoleSeller)))
	require.NoError(t, f.users.Upsert(context.Background(), testutil.NewTestUser("boss", domain.RoleAdmin)))

	a := NewAuthenticator(f.tokens, f.users, nil)
	f.router = gin.New()
	authed := f.router.Group("/", a.RequireAuth())
	authed.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, CurrentUser(c).ID) })
	authed.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return f
}

func (f *fixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHashToken(t *testing.T) {
	assert.Len(t, HashToken("abc"), 64)
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}

func TestIssueToken_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := IssueToken(context.Background(), f.tokens, f.users, "ghost", "cli")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRequireAuth(t *testing.T) {
	f := newFixture(t)
	token, err := IssueToken(context.Background(), f.tokens, f.users, "seller", "cli")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/me", "sc_bogus").Code)

	w := f.do(http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "seller", w.Body.String())

	require.NoError(t, RevokeToken(context.Background(), f.tokens, token))
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/me", token).Code)
}

func TestRequireAdmin(t *testing.T) {
	f := newFixture(t)
	sellerToken, err := IssueToken(context.Background(), f.tokens, f.users, "seller", "")
	require.NoError(t, err)
	adminToken, err := IssueToken(context.Background(), f.tokens, f.users, "boss", "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/admin", "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/admin", sellerToken).Code)
	assert.Equal(t, http.StatusNoContent, f.do(http.MethodGet, "/admin", adminToken).Code)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Empty(t, bearerToken("Basic abc"))
	assert.Empty(t, bearerToken("abc"))
}
