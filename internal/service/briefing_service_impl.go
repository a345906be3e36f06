package service

import (
	"context"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/intelligence"
)

type briefingService struct {
	tasks    TaskGenerationService
	insights InsightService
	observer UseCaseObserver
	now      func() time.Time
}

func NewBriefingService(tasks TaskGenerationService, insights InsightService, observers ...UseCaseObserver) BriefingService {
	return &briefingService{
		tasks:    tasks,
		insights: insights,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *briefingService) GenerateDailyBriefing(ctx context.Context, req BriefingRequest) (b *domain.DailyBriefing, err error) {
	start := time.Now()
	defer func() {
		observe(ctx, s.observer, "generate_daily_briefing", start, &err, map[string]any{"user_id": req.UserID})
	}()

	now := s.now()
	if req.Date.IsZero() {
		req.Date = startOfDay(now)
	}

	tasks, err := s.tasks.GenerateDailyTasks(ctx, req.GenerateDailyTasksRequest)
	if err != nil {
		return nil, err
	}
	insights, err := s.insights.GenerateInsights(ctx, req.GenerateDailyTasksRequest)
	if err != nil {
		return nil, err
	}

	return intelligence.AssembleBriefing(intelligence.BriefingInput{
		UserID:         req.UserID,
		UserName:       req.UserName,
		Date:           req.Date,
		Now:            now,
		Tasks:          tasks.Tasks,
		Insights:       insights.Insights,
		YesterdayTasks: req.YesterdayTasks,
		Activities:     req.RecentActivities,
		Deals:          req.Deals,
		TaskSource:     tasks.Source,
		InsightSource:  insights.Source,
	}), nil
}
