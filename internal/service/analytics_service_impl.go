package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/repository"
)

type TimePeriod string

const (
	PeriodToday TimePeriod = "today"
	PeriodWeek  TimePeriod = "week"
	PeriodMonth TimePeriod = "month"
	PeriodAll   TimePeriod = "all"
)

// ParseTimePeriod accepts the four known periods; empty means week.
func ParseTimePeriod(s string) (TimePeriod, error) {
	switch p := TimePeriod(s); p {
	case "":
		return PeriodWeek, nil
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	}
	return "", fmt.Errorf("%w: unknown time period %q", ErrValidation, s)
}

// Analytics summarizes a seller's task history over a period.
type Analytics struct {
	UserID               string                     `json:"userId"`
	TimePeriod           TimePeriod                 `json:"timePeriod"`
	From                 *domain.Timestamp          `json:"from,omitempty"`
	To                   domain.Timestamp           `json:"to"`
	TotalTasks           int                        `json:"totalTasks"`
	CompletedTasks       int                        `json:"completedTasks"`
	CompletionRate       float64                    `json:"completionRate"`
	ByStatus             map[domain.TaskStatus]int  `json:"byStatus"`
	ByType               map[domain.TaskType]int    `json:"byType"`
	ByOutcome            map[domain.TaskOutcome]int `json:"byOutcome"`
	AvgEstimatedDuration float64                    `json:"avgEstimatedDuration"`
	AvgActualDuration    float64                    `json:"avgActualDuration"`
	ActivityCount        int                        `json:"activityCount"`
	OpenDealsByStage     map[domain.DealStage]int   `json:"openDealsByStage"`
}

type analyticsService struct {
	tasks      repository.TaskRepo
	activities repository.ActivityRepo
	deals      repository.DealRepo
	now        func() time.Time
}

func NewAnalyticsService(tasks repository.TaskRepo, activities repository.ActivityRepo, deals repository.DealRepo) AnalyticsService {
	return &analyticsService{
		tasks:      tasks,
		activities: activities,
		deals:      deals,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func periodStart(p TimePeriod, now time.Time) *time.Time {
	var from time.Time
	switch p {
	case PeriodToday:
		from = startOfDay(now)
	case PeriodWeek:
		from = now.AddDate(0, 0, -7)
	case PeriodMonth:
		from = now.AddDate(0, -1, 0)
	default:
		return nil
	}
	return &from
}

func (s *analyticsService) Compute(ctx context.Context, userID string, period TimePeriod) (*Analytics, error) {
	now := s.now()
	from := periodStart(period, now)
	to := now
	if period == PeriodToday {
		to = startOfDay(now).AddDate(0, 0, 1)
	}

	tasks, err := s.tasks.List(ctx, repository.TaskFilter{UserID: userID, ScheduledFrom: from, ScheduledTo: &to})
	if err != nil {
		return nil, err
	}
	var since time.Time
	if from != nil {
		since = *from
	}
	activities, err := s.activities.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	deals, err := s.deals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	a := &Analytics{
		UserID:           userID,
		TimePeriod:       period,
		To:               domain.NewTimestamp(to),
		TotalTasks:       len(tasks),
		ByStatus:         map[domain.TaskStatus]int{},
		ByType:           map[domain.TaskType]int{},
		ByOutcome:        map[domain.TaskOutcome]int{},
		ActivityCount:    len(activities),
		OpenDealsByStage: map[domain.DealStage]int{},
	}
	if from != nil {
		a.From = domain.TimestampPtr(*from)
	}

	var estSum, actSum, actCount int
	for _, t := range tasks {
		a.ByStatus[t.Status]++
		a.ByType[t.Type]++
		if t.Status != domain.StatusCompleted {
			continue
		}
		a.CompletedTasks++
		if t.Outcome != "" {
			a.ByOutcome[t.Outcome]++
		}
		estSum += t.EstimatedDuration
		if t.ActualDuration > 0 {
			actSum += t.ActualDuration
			actCount++
		}
	}
	if a.CompletedTasks > 0 {
		a.AvgEstimatedDuration = round1(float64(estSum) / float64(a.CompletedTasks))
	}
	if actCount > 0 {
		a.AvgActualDuration = round1(float64(actSum) / float64(actCount))
	}
	if a.TotalTasks > 0 {
		a.CompletionRate = round1(float64(a.CompletedTasks) / float64(a.TotalTasks) * 100)
	}

	for _, d := range deals {
		if d.Stage != domain.StageWon && d.Stage != domain.StageLost {
			a.OpenDealsByStage[d.Stage]++
		}
	}
	return a, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
