package intelligence

import (
	"fmt"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
)

const maxFocusAreas = 3

// BriefingInput carries everything AssembleBriefing needs. Tasks and
// insights have already been generated.
type BriefingInput struct {
	UserID         string
	UserName       string
	Date           time.Time
	Now            time.Time
	Tasks          []domain.Task
	Insights       []domain.Insight
	YesterdayTasks []domain.Task
	Activities     []domain.Activity
	Deals          []domain.Deal
	TaskSource     Source
	InsightSource  Source
}

// AssembleBriefing composes the morning view. It performs no I/O.
func AssembleBriefing(in BriefingInput) *domain.DailyBriefing {
	tasks := in.Tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}
	insights := in.Insights
	if insights == nil {
		insights = []domain.Insight{}
	}

	completed := 0
	for _, t := range in.YesterdayTasks {
		if t.Status == domain.StatusCompleted {
			completed++
		}
	}
	total := len(in.YesterdayTasks)

	advice := ProductivityCoaching(completed, total, in.Activities, in.Deals, in.Now)

	return &domain.DailyBriefing{
		UserID:              in.UserID,
		Date:                in.Date.Format("2006-01-02"),
		TasksCount:          len(tasks),
		PriorityBreakdown:   PriorityHistogram(tasks),
		Tasks:               tasks,
		Insights:            insights,
		YesterdayCompleted:  completed,
		YesterdayTotal:      total,
		MotivationalMessage: MotivationalMessage(in.UserName, completed, total),
		FocusAreas:          FocusAreas(tasks),
		ProductivityTips:    advice.Tips,
		Bottlenecks:         advice.Bottlenecks,
		TaskSource:          string(in.TaskSource),
		InsightSource:       string(in.InsightSource),
		GeneratedAt:         domain.NewTimestamp(in.Now),
	}
}

// PriorityHistogram counts tasks per priority. Unknown priorities count as
// medium, matching Task.Normalize.
func PriorityHistogram(tasks []domain.Task) domain.PriorityBreakdown {
	var b domain.PriorityBreakdown
	for _, t := range tasks {
		switch t.Priority {
		case domain.PriorityCritical:
			b.Critical++
		case domain.PriorityHigh:
			b.High++
		case domain.PriorityLow:
			b.Low++
		default:
			b.Medium++
		}
	}
	return b
}

func MotivationalMessage(name string, completed, total int) string {
	if total == 0 {
		return fmt.Sprintf("Good morning %s! A fresh day: let's build momentum with today's tasks.", name)
	}
	rate := CompletionRate(completed, total)
	switch {
	case rate >= 80:
		return fmt.Sprintf("Outstanding work yesterday, %s: %d/%d tasks completed. Keep the streak going!", name, completed, total)
	case rate >= 50:
		return fmt.Sprintf("Good progress yesterday, %s: %d/%d tasks done. Today let's aim even higher.", name, completed, total)
	default:
		return fmt.Sprintf("New day, new opportunities, %s. Yesterday you closed %d/%d tasks: start with the most important one.", name, completed, total)
	}
}

// FocusAreas returns the titles of up to three critical or high priority
// tasks, in task order.
func FocusAreas(tasks []domain.Task) []string {
	out := []string{}
	for _, t := range tasks {
		if len(out) == maxFocusAreas {
			break
		}
		if t.Priority == domain.PriorityCritical || t.Priority == domain.PriorityHigh {
			out = append(out, t.Title)
		}
	}
	return out
}
