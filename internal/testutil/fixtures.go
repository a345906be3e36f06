package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/stefanorainone/sales-management/internal/domain"
)

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithTaskPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithTaskType(tt domain.TaskType) TaskOption {
	return func(t *domain.Task) {
		t.Type = tt
	}
}

func WithScheduledAt(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ScheduledAt = domain.NewTimestamp(at)
	}
}

func WithTaskDeal(dealID string) TaskOption {
	return func(t *domain.Task) {
		t.DealID = dealID
	}
}

func NewTestTask(userID, title string, opts ...TaskOption) *domain.Task {
	now := domain.NewTimestamp(time.Now())
	t := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Type:        domain.TaskCall,
		Title:       title,
		Description: title,
		Priority:    domain.PriorityMedium,
		Status:      domain.StatusPending,
		ScheduledAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.Normalize()
	return t
}

// Deal options
type DealOption func(*domain.Deal)

func WithStage(s domain.DealStage) DealOption {
	return func(d *domain.Deal) {
		d.Stage = s
	}
}

func WithEntityType(e domain.EntityType) DealOption {
	return func(d *domain.Deal) {
		d.EntityType = e
	}
}

// WithDealUpdatedAt backdates the deal's last update.
func WithDealUpdatedAt(at time.Time) DealOption {
	return func(d *domain.Deal) {
		d.UpdatedAt = domain.NewTimestamp(at)
	}
}

func WithDealClient(clientID string) DealOption {
	return func(d *domain.Deal) {
		d.ClientID = clientID
	}
}

func NewTestDeal(userID, title string, opts ...DealOption) *domain.Deal {
	now := domain.NewTimestamp(time.Now())
	d := &domain.Deal{
		ID:         uuid.New().String(),
		UserID:     userID,
		Title:      title,
		Stage:      domain.StageProposal,
		EntityType: domain.EntityCompany,
		Value:      5000,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func NewTestClient(userID, name string, entity domain.EntityType) *domain.Client {
	now := domain.NewTimestamp(time.Now())
	return &domain.Client{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       name,
		EntityType: entity,
		Status:     domain.ClientProspect,
		City:       "Roma",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func NewTestActivity(userID, title string, at time.Time) *domain.Activity {
	return &domain.Activity{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      "call",
		Title:     title,
		CreatedAt: domain.NewTimestamp(at),
	}
}

func NewTestUser(id string, role domain.Role) *domain.User {
	return &domain.User{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: "User " + id,
		Role:        role,
		CreatedAt:   domain.NewTimestamp(time.Now()),
	}
}

// Instruction options
type InstructionOption func(*domain.AICustomInstructions)

func WithInstructionPriority(l domain.Level) InstructionOption {
	return func(in *domain.AICustomInstructions) {
		in.Priority = l
	}
}

func WithInactive() InstructionOption {
	return func(in *domain.AICustomInstructions) {
		in.Active = false
	}
}

func WithExpiresAt(at time.Time) InstructionOption {
	return func(in *domain.AICustomInstructions) {
		in.ExpiresAt = domain.TimestampPtr(at)
	}
}

func NewTestInstructions(userID, text string, opts ...InstructionOption) *domain.AICustomInstructions {
	now := domain.NewTimestamp(time.Now())
	in := &domain.AICustomInstructions{
		ID:           uuid.New().String(),
		UserID:       userID,
		CreatedBy:    "admin",
		Instructions: text,
		Priority:     domain.LevelMedium,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}
