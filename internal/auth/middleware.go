package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/repository"
)

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// Authenticator resolves bearer tokens to users.
type Authenticator struct {
	tokens repository.TokenRepo
	users  repository.UserRepo
	logger *slog.Logger
}

func NewAuthenticator(tokens repository.TokenRepo, users repository.UserRepo, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{tokens: tokens, users: users, logger: logger}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller in the gin context for downstream handlers.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := a.tokens.UserIDForHash(c.Request.Context(), HashToken(raw))
		if err == nil {
			var user *domain.User
			user, err = a.users.GetByID(c.Request.Context(), userID)
			if err == nil {
				c.Set(userKey, user)
				c.Set(userIDKey, user.ID)
				c.Next()
				return
			}
		}

		if errors.Is(err, repository.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		a.logger.ErrorContext(c.Request.Context(), "auth lookup failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
