package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/repository"
)

type instructionService struct {
	instructions repository.InstructionRepo
	users        repository.UserRepo
	now          func() time.Time
}

func NewInstructionService(instructions repository.InstructionRepo, users repository.UserRepo) InstructionService {
	return &instructionService{
		instructions: instructions,
		users:        users,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *instructionService) List(ctx context.Context, userID string) ([]*domain.AICustomInstructions, error) {
	return s.instructions.ListByUser(ctx, userID)
}

func (s *instructionService) Create(ctx context.Context, req CreateInstructionRequest) (*domain.AICustomInstructions, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown user %s", ErrValidation, req.UserID)
		}
		return nil, fmt.Errorf("loading user %s: %w", req.UserID, err)
	}
	now := s.now()
	if req.ExpiresAt != nil && !req.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: expiresAt must be in the future", ErrValidation)
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.LevelMedium
	}
	in := &domain.AICustomInstructions{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		CreatedBy:    req.CreatedBy,
		Instructions: req.Instructions,
		Priority:     priority,
		Active:       true,
		CreatedAt:    domain.NewTimestamp(now),
		UpdatedAt:    domain.NewTimestamp(now),
	}
	if req.ExpiresAt != nil {
		in.ExpiresAt = domain.TimestampPtr(*req.ExpiresAt)
	}
	if err := s.instructions.Upsert(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *instructionService) Deactivate(ctx context.Context, id string) (*domain.AICustomInstructions, error) {
	in, err := s.instructions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Active = false
	in.UpdatedAt = domain.NewTimestamp(s.now())
	if err := s.instructions.Upsert(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}
