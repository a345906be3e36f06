package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo on the tasks document table.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

const taskKind = "task"

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	doc, err := encodeDoc(taskKind, t)
	if err != nil {
		return err
	}
	query := `INSERT INTO tasks (id, user_id, status, type, priority, scheduled_at, completed_at, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, taskArgs(t, doc)...)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Upsert(ctx context.Context, t *domain.Task) error {
	doc, err := encodeDoc(taskKind, t)
	if err != nil {
		return err
	}
	query := `INSERT INTO tasks (id, user_id, status, type, priority, scheduled_at, completed_at, doc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			status = excluded.status,
			type = excluded.type,
			priority = excluded.priority,
			scheduled_at = excluded.scheduled_at,
			completed_at = excluded.completed_at,
			doc = excluded.doc,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query, taskArgs(t, doc)...)
	if err != nil {
		return fmt.Errorf("upserting task: %w", err)
	}
	return nil
}

func taskArgs(t *domain.Task, doc string) []any {
	return []any{
		t.ID,
		t.UserID,
		string(t.Status),
		string(t.Type),
		string(t.Priority),
		t.ScheduledAt.ISO(),
		nullableTimestamp(t.CompletedAt),
		doc,
		t.CreatedAt.ISO(),
		t.UpdatedAt.ISO(),
	}
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return queryDoc[domain.Task](ctx, r.db, taskKind, `SELECT doc FROM tasks WHERE id = ?`, id)
}

func (r *SQLiteTaskRepo) List(ctx context.Context, f TaskFilter) ([]*domain.Task, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if len(f.Statuses) > 0 {
		marks := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			marks[i] = "?"
			args = append(args, string(s))
		}
		where = append(where, "status IN ("+strings.Join(marks, ", ")+")")
	}
	if f.ScheduledFrom != nil {
		where = append(where, "scheduled_at >= ?")
		args = append(args, isoTime(*f.ScheduledFrom))
	}
	if f.ScheduledTo != nil {
		where = append(where, "scheduled_at < ?")
		args = append(args, isoTime(*f.ScheduledTo))
	}

	query := `SELECT doc FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY scheduled_at, created_at"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return queryDocs[domain.Task](ctx, r.db, taskKind, query, args...)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, taskKind, `DELETE FROM tasks WHERE id = ?`, id)
}
