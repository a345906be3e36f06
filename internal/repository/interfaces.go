package repository

import (
	"context"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
)

// TaskFilter narrows a task listing. Zero fields do not filter.
type TaskFilter struct {
	UserID        string
	Statuses      []domain.TaskStatus
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time // exclusive
	Limit         int
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	Upsert(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, f TaskFilter) ([]*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type InsightRepo interface {
	Create(ctx context.Context, in *domain.Insight) error
	Upsert(ctx context.Context, in *domain.Insight) error
	GetByID(ctx context.Context, id string) (*domain.Insight, error)
	ListByUser(ctx context.Context, userID string, includeDismissed bool) ([]*domain.Insight, error)
}

type ClientRepo interface {
	Upsert(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Client, error)
}

type DealRepo interface {
	Upsert(ctx context.Context, d *domain.Deal) error
	GetByID(ctx context.Context, id string) (*domain.Deal, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Deal, error)
}

type RelationshipRepo interface {
	Upsert(ctx context.Context, r *domain.Relationship) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Relationship, error)
}

type ActivityRepo interface {
	Upsert(ctx context.Context, a *domain.Activity) error
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.Activity, error)
}

type InstructionRepo interface {
	Upsert(ctx context.Context, in *domain.AICustomInstructions) error
	GetByID(ctx context.Context, id string) (*domain.AICustomInstructions, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.AICustomInstructions, error)
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.AICustomInstructions, error)
}

type UserRepo interface {
	Upsert(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type TokenRepo interface {
	Create(ctx context.Context, tokenHash, userID, label string, createdAt time.Time) error
	UserIDForHash(ctx context.Context, tokenHash string) (string, error)
	Revoke(ctx context.Context, tokenHash string, at time.Time) error
}
