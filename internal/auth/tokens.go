package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/stefanorainone/sales-management/internal/repository"
)

const tokenBytes = 32

// HashToken returns the stored form of a raw bearer token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IssueToken creates a bearer token for an existing user and stores its
// hash. The raw token is returned once and never persisted.
func IssueToken(ctx context.Context, tokens repository.TokenRepo, users repository.UserRepo, userID, label string) (string, error) {
	if _, err := users.GetByID(ctx, userID); err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	raw := "sc_" + hex.EncodeToString(buf)

	if err := tokens.Create(ctx, HashToken(raw), userID, label, time.Now().UTC()); err != nil {
		return "", err
	}
	return raw, nil
}

// RevokeToken disables a raw token.
func RevokeToken(ctx context.Context, tokens repository.TokenRepo, raw string) error {
	return tokens.Revoke(ctx, HashToken(raw), time.Now().UTC())
}
