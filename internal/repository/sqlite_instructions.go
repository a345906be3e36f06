package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
)

// SQLiteInstructionRepo implements InstructionRepo on ai_custom_instructions.
type SQLiteInstructionRepo struct {
	db db.DBTX
}

func NewSQLiteInstructionRepo(db db.DBTX) *SQLiteInstructionRepo {
	return &SQLiteInstructionRepo{db: db}
}

const instructionKind = "custom instructions"

func (r *SQLiteInstructionRepo) Upsert(ctx context.Context, in *domain.AICustomInstructions) error {
	doc, err := encodeDoc(instructionKind, in)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO ai_custom_instructions (id, user_id, active, expires_at, doc, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, active = excluded.active,
			expires_at = excluded.expires_at, doc = excluded.doc`,
		in.ID, in.UserID, boolToInt(in.Active), nullableTimestamp(in.ExpiresAt), doc, in.CreatedAt.ISO())
	if err != nil {
		return fmt.Errorf("upserting custom instructions: %w", err)
	}
	return nil
}

func (r *SQLiteInstructionRepo) GetByID(ctx context.Context, id string) (*domain.AICustomInstructions, error) {
	return queryDoc[domain.AICustomInstructions](ctx, r.db, instructionKind,
		`SELECT doc FROM ai_custom_instructions WHERE id = ?`, id)
}

func (r *SQLiteInstructionRepo) ListByUser(ctx context.Context, userID string) ([]*domain.AICustomInstructions, error) {
	return queryDocs[domain.AICustomInstructions](ctx, r.db, instructionKind,
		`SELECT doc FROM ai_custom_instructions WHERE user_id = ? ORDER BY created_at`, userID)
}

// ListActiveByUser returns active instructions that have not expired at now.
func (r *SQLiteInstructionRepo) ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.AICustomInstructions, error) {
	return queryDocs[domain.AICustomInstructions](ctx, r.db, instructionKind,
		`SELECT doc FROM ai_custom_instructions
		WHERE user_id = ? AND active = 1 AND (expires_at IS NULL OR expires_at > ?)
		ORDER BY created_at`, userID, isoTime(now))
}
