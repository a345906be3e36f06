package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
)

type SQLiteUserRepo struct {
	db db.DBTX
}

func NewSQLiteUserRepo(db db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

func (r *SQLiteUserRepo) Upsert(ctx context.Context, u *domain.User) error {
	doc, err := encodeDoc("user", u)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, role, doc, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email, role = excluded.role, doc = excluded.doc`,
		u.ID, u.Email, string(u.Role), doc, u.CreatedAt.ISO())
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return queryDoc[domain.User](ctx, r.db, "user", `SELECT doc FROM users WHERE id = ?`, id)
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return queryDocs[domain.User](ctx, r.db, "user", `SELECT doc FROM users ORDER BY created_at, id`)
}

// SQLiteTokenRepo stores hashed bearer tokens.
type SQLiteTokenRepo struct {
	db db.DBTX
}

func NewSQLiteTokenRepo(db db.DBTX) *SQLiteTokenRepo {
	return &SQLiteTokenRepo{db: db}
}

func (r *SQLiteTokenRepo) Create(ctx context.Context, tokenHash, userID, label string, createdAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_tokens (token_hash, user_id, label, created_at) VALUES (?, ?, ?, ?)`,
		tokenHash, userID, label, isoTime(createdAt))
	if err != nil {
		return fmt.Errorf("inserting api token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenRepo) UserIDForHash(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM api_tokens WHERE token_hash = ? AND revoked_at IS NULL`, tokenHash).Scan(&userID)
	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("api token: %w", ErrNotFound)
		}
		return "", fmt.Errorf("looking up api token: %w", err)
	}
	return userID, nil
}

func (r *SQLiteTokenRepo) Revoke(ctx context.Context, tokenHash string, at time.Time) error {
	return execAffectingOne(ctx, r.db, "api token",
		`UPDATE api_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`,
		isoTime(at), tokenHash)
}
