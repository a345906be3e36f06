package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
)

// The pipeline collections are read-only inputs to the coach. They are
// written by the seed loader and read whole per seller.

type SQLiteClientRepo struct {
	db db.DBTX
}

func NewSQLiteClientRepo(db db.DBTX) *SQLiteClientRepo {
	return &SQLiteClientRepo{db: db}
}

func (r *SQLiteClientRepo) Upsert(ctx context.Context, c *domain.Client) error {
	doc, err := encodeDoc("client", c)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO clients (id, user_id, doc, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, doc = excluded.doc, updated_at = excluded.updated_at`,
		c.ID, c.UserID, doc, c.UpdatedAt.ISO())
	if err != nil {
		return fmt.Errorf("upserting client: %w", err)
	}
	return nil
}

func (r *SQLiteClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	return queryDoc[domain.Client](ctx, r.db, "client", `SELECT doc FROM clients WHERE id = ?`, id)
}

func (r *SQLiteClientRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Client, error) {
	return queryDocs[domain.Client](ctx, r.db, "client",
		`SELECT doc FROM clients WHERE user_id = ? ORDER BY updated_at DESC`, userID)
}

type SQLiteDealRepo struct {
	db db.DBTX
}

func NewSQLiteDealRepo(db db.DBTX) *SQLiteDealRepo {
	return &SQLiteDealRepo{db: db}
}

func (r *SQLiteDealRepo) Upsert(ctx context.Context, d *domain.Deal) error {
	doc, err := encodeDoc("deal", d)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO deals (id, user_id, stage, doc, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, stage = excluded.stage,
			doc = excluded.doc, updated_at = excluded.updated_at`,
		d.ID, d.UserID, string(d.Stage), doc, d.UpdatedAt.ISO())
	if err != nil {
		return fmt.Errorf("upserting deal: %w", err)
	}
	return nil
}

func (r *SQLiteDealRepo) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	return queryDoc[domain.Deal](ctx, r.db, "deal", `SELECT doc FROM deals WHERE id = ?`, id)
}

func (r *SQLiteDealRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Deal, error) {
	return queryDocs[domain.Deal](ctx, r.db, "deal",
		`SELECT doc FROM deals WHERE user_id = ? ORDER BY updated_at DESC`, userID)
}

type SQLiteRelationshipRepo struct {
	db db.DBTX
}

func NewSQLiteRelationshipRepo(db db.DBTX) *SQLiteRelationshipRepo {
	return &SQLiteRelationshipRepo{db: db}
}

func (r *SQLiteRelationshipRepo) Upsert(ctx context.Context, rel *domain.Relationship) error {
	doc, err := encodeDoc("relationship", rel)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO relationships (id, user_id, doc, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, doc = excluded.doc, updated_at = excluded.updated_at`,
		rel.ID, rel.UserID, doc, rel.UpdatedAt.ISO())
	if err != nil {
		return fmt.Errorf("upserting relationship: %w", err)
	}
	return nil
}

func (r *SQLiteRelationshipRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Relationship, error) {
	return queryDocs[domain.Relationship](ctx, r.db, "relationship",
		`SELECT doc FROM relationships WHERE user_id = ? ORDER BY updated_at DESC`, userID)
}

type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(db db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: db}
}

func (r *SQLiteActivityRepo) Upsert(ctx context.Context, a *domain.Activity) error {
	doc, err := encodeDoc("activity", a)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO activities (id, user_id, doc, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, doc = excluded.doc, created_at = excluded.created_at`,
		a.ID, a.UserID, doc, a.CreatedAt.ISO())
	if err != nil {
		return fmt.Errorf("upserting activity: %w", err)
	}
	return nil
}

func (r *SQLiteActivityRepo) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.Activity, error) {
	return queryDocs[domain.Activity](ctx, r.db, "activity",
		`SELECT doc FROM activities WHERE user_id = ? AND created_at >= ? ORDER BY created_at DESC`,
		userID, isoTime(since))
}
