package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stefanorainone/sales-management/internal/db"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
	"github.com/stefanorainone/sales-management/internal/repository"
)

type insightService struct {
	insights     repository.InsightRepo
	uow          db.UnitOfWork
	drafter      *intelligence.InsightDrafter
	instructions *intelligence.InstructionsFetcher
	logger       *slog.Logger
	observer     UseCaseObserver
	now          func() time.Time
}

func NewInsightService(
	insights repository.InsightRepo,
	uow db.UnitOfWork,
	drafter *intelligence.InsightDrafter,
	instructions *intelligence.InstructionsFetcher,
	logger *slog.Logger,
	observers ...UseCaseObserver,
) InsightService {
	if logger == nil {
		logger = slog.Default()
	}
	return &insightService{
		insights:     insights,
		uow:          uow,
		drafter:      drafter,
		instructions: instructions,
		logger:       logger,
		observer:     useCaseObserverOrNoop(observers),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// GenerateInsights always drafts a fresh set. Persisting them is best
// effort.
func (s *insightService) GenerateInsights(ctx context.Context, req GenerateDailyTasksRequest) (res *InsightGenerationResult, err error) {
	start := time.Now()
	fields := map[string]any{"user_id": req.UserID}
	defer func() {
		if res != nil {
			fields["source"] = string(res.Source)
		}
		observe(ctx, s.observer, "generate_insights", start, &err, fields)
	}()

	snap := req.snapshot(s.now(), s.instructions.Fetch(ctx, req.UserID))
	draft := s.drafter.Draft(ctx, snap)

	if err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteInsightRepo(tx)
		for i := range draft.Insights {
			if err := repo.Create(ctx, &draft.Insights[i]); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		s.logger.ErrorContext(ctx, "persisting insights failed", "user_id", req.UserID, "error", err.Error())
	}

	return &InsightGenerationResult{
		Insights:       draft.Insights,
		Source:         draft.Source,
		FallbackReason: draft.FallbackReason,
	}, nil
}

func (s *insightService) List(ctx context.Context, userID string, includeDismissed bool) ([]*domain.Insight, error) {
	return s.insights.ListByUser(ctx, userID, includeDismissed)
}

func (s *insightService) Dismiss(ctx context.Context, userID, insightID string) error {
	in, err := s.insights.GetByID(ctx, insightID)
	if err != nil {
		return err
	}
	if in.UserID != userID {
		return fmt.Errorf("insight %s: %w", insightID, ErrForbidden)
	}
	if in.Dismissed {
		return nil
	}
	in.Dismissed = true
	return s.insights.Upsert(ctx, in)
}
