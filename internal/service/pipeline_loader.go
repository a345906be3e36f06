package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/repository"
)

// recentActivityWindow is how far back activities feed the prompts.
const recentActivityWindow = 7 * 24 * time.Hour

// PipelineLoader gathers a seller's pipeline from the stores so callers can
// build generation requests without knowing the repositories.
type PipelineLoader struct {
	users      repository.UserRepo
	deals      repository.DealRepo
	clients    repository.ClientRepo
	activities repository.ActivityRepo
	tasks      repository.TaskRepo
	now        func() time.Time
}

func NewPipelineLoader(
	users repository.UserRepo,
	deals repository.DealRepo,
	clients repository.ClientRepo,
	activities repository.ActivityRepo,
	tasks repository.TaskRepo,
) *PipelineLoader {
	return &PipelineLoader{
		users:      users,
		deals:      deals,
		clients:    clients,
		activities: activities,
		tasks:      tasks,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Load builds the briefing request for userID on the day containing date.
// A zero date means today. Unknown users load with their id as name.
func (l *PipelineLoader) Load(ctx context.Context, userID string, date time.Time) (*BriefingRequest, error) {
	now := l.now()
	if date.IsZero() {
		date = now
	}
	day := startOfDay(date)

	name := userID
	u, err := l.users.GetByID(ctx, userID)
	switch {
	case err == nil:
		name = u.Name()
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("loading user %s: %w", userID, err)
	}

	deals, err := l.deals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	clients, err := l.clients.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	activities, err := l.activities.ListByUserSince(ctx, userID, now.Add(-recentActivityWindow))
	if err != nil {
		return nil, err
	}

	completed, err := l.tasks.List(ctx, repository.TaskFilter{
		UserID:   userID,
		Statuses: []domain.TaskStatus{domain.StatusCompleted},
	})
	if err != nil {
		return nil, err
	}
	nextDay := day.AddDate(0, 0, 1)
	var completedToday []domain.Task
	for _, t := range completed {
		if t.CompletedAt != nil && !t.CompletedAt.Before(day) && t.CompletedAt.Before(nextDay) {
			completedToday = append(completedToday, *t)
		}
	}

	yesterday := day.AddDate(0, 0, -1)
	prev, err := l.tasks.List(ctx, repository.TaskFilter{
		UserID:        userID,
		ScheduledFrom: &yesterday,
		ScheduledTo:   &day,
	})
	if err != nil {
		return nil, err
	}

	return &BriefingRequest{
		GenerateDailyTasksRequest: GenerateDailyTasksRequest{
			UserID:           userID,
			UserName:         name,
			Deals:            values(deals),
			Clients:          values(clients),
			RecentActivities: values(activities),
			CompletedToday:   completedToday,
			Date:             day,
		},
		YesterdayTasks: values(prev),
	}, nil
}
