package repository

import (
	"context"
	"fmt"

	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
)

// SQLiteInsightRepo implements InsightRepo.
type SQLiteInsightRepo struct {
	db db.DBTX
}

func NewSQLiteInsightRepo(db db.DBTX) *SQLiteInsightRepo {
	return &SQLiteInsightRepo{db: db}
}

const insightKind = "insight"

func (r *SQLiteInsightRepo) Create(ctx context.Context, in *domain.Insight) error {
	doc, err := encodeDoc(insightKind, in)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO insights (id, user_id, dismissed, doc, created_at) VALUES (?, ?, ?, ?, ?)`,
		in.ID, in.UserID, boolToInt(in.Dismissed), doc, in.CreatedAt.ISO())
	if err != nil {
		return fmt.Errorf("inserting insight: %w", err)
	}
	return nil
}

func (r *SQLiteInsightRepo) Upsert(ctx context.Context, in *domain.Insight) error {
	doc, err := encodeDoc(insightKind, in)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO insights (id, user_id, dismissed, doc, created_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET dismissed = excluded.dismissed, doc = excluded.doc`,
		in.ID, in.UserID, boolToInt(in.Dismissed), doc, in.CreatedAt.ISO())
	if err != nil {
		return fmt.Errorf("upserting insight: %w", err)
	}
	return nil
}

func (r *SQLiteInsightRepo) GetByID(ctx context.Context, id string) (*domain.Insight, error) {
	return queryDoc[domain.Insight](ctx, r.db, insightKind, `SELECT doc FROM insights WHERE id = ?`, id)
}

func (r *SQLiteInsightRepo) ListByUser(ctx context.Context, userID string, includeDismissed bool) ([]*domain.Insight, error) {
	query := `SELECT doc FROM insights WHERE user_id = ?`
	if !includeDismissed {
		query += ` AND dismissed = 0`
	}
	query += ` ORDER BY created_at DESC`
	return queryDocs[domain.Insight](ctx, r.db, insightKind, query, userID)
}
