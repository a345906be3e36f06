package formatter

import (
	"fmt"
	"strings"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/service"
)

// FormatTaskList renders a seller's tasks with their status.
func FormatTaskList(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}
	headers := []string{"STATUS", "PRIORITY", "TASK", "SCHEDULED", "ID"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TaskStatusPill(t.Status),
			PriorityBadge(t.Priority),
			Bold(t.Title),
			t.ScheduledAt.Local().Format("Jan 2 15:04"),
			t.ID,
		})
	}
	return RenderTable(headers, rows)
}

// FormatCompletion summarizes a completed task and the coach's analysis.
func FormatCompletion(res *service.CompletionResult) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render("✔ Completed: ") + Bold(res.Task.Title) + "\n")
	if res.UploadError != "" {
		b.WriteString(StyleYellow.Render("Attachments were not saved: ") + res.UploadError + "\n")
	}
	for _, url := range res.Task.Attachments {
		b.WriteString(Dim("  attached "+url) + "\n")
	}
	if a := res.Analysis; a != nil {
		b.WriteString("\n" + Header("Coach analysis") + "\n")
		if a.Degraded {
			b.WriteString(StyleYellow.Render(a.Analysis) + "\n")
		} else {
			b.WriteString(a.Analysis + "\n")
		}
		b.WriteString(bullets(a.SuggestedNextSteps, StyleHeader))
		for _, s := range a.NewTaskSuggestions {
			b.WriteString(Dim(fmt.Sprintf("  suggested %s: %s", s.Type, s.Title)) + "\n")
		}
	}
	return b.String()
}
