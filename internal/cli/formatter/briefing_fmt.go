package formatter

import (
	"fmt"
	"strings"

	"github.com/stefanorainone/sales-management/internal/domain"
)

// FormatBriefing renders the morning briefing for the terminal.
func FormatBriefing(b *domain.DailyBriefing) string {
	var out strings.Builder

	out.WriteString(RenderBox("Daily briefing "+b.Date, StyleFg.Render(b.MotivationalMessage)))
	out.WriteString("\n\n")

	pb := b.PriorityBreakdown
	out.WriteString(Header(fmt.Sprintf("Today's tasks (%d)", b.TasksCount)))
	out.WriteString("\n")
	out.WriteString(fmt.Sprintf("%s  %s  %s  %s\n\n",
		StyleRed.Render(fmt.Sprintf("%d critical", pb.Critical)),
		StyleYellow.Render(fmt.Sprintf("%d high", pb.High)),
		StyleBlue.Render(fmt.Sprintf("%d medium", pb.Medium)),
		StyleDim.Render(fmt.Sprintf("%d low", pb.Low)),
	))
	out.WriteString(taskTable(b.Tasks))

	if len(b.FocusAreas) > 0 {
		out.WriteString("\n")
		out.WriteString(Header("Focus"))
		out.WriteString("\n")
		out.WriteString(bullets(b.FocusAreas, StyleHeader))
	}

	if len(b.Insights) > 0 {
		out.WriteString("\n")
		out.WriteString(Header("Insights"))
		out.WriteString("\n")
		for _, in := range b.Insights {
			style := InsightStyle(in.Type)
			out.WriteString(style.Render("● "+in.Title) + "\n")
			out.WriteString("  " + Dim(in.Message) + "\n")
			if in.SuggestedAction != "" {
				out.WriteString("  → " + in.SuggestedAction + "\n")
			}
		}
	}

	if len(b.Bottlenecks) > 0 || len(b.ProductivityTips) > 0 {
		out.WriteString("\n")
		out.WriteString(Header("Coaching"))
		out.WriteString("\n")
		out.WriteString(Dim(fmt.Sprintf("Yesterday: %d/%d completed", b.YesterdayCompleted, b.YesterdayTotal)) + "\n")
		out.WriteString(bullets(b.Bottlenecks, StyleRed))
		out.WriteString(bullets(b.ProductivityTips, StyleGreen))
	}

	if b.TaskSource == "mock" || b.InsightSource == "mock" {
		out.WriteString("\n" + Dim("Offline suggestions: the AI coach was not available.") + "\n")
	}
	return out.String()
}

func taskTable(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks for today.") + "\n"
	}
	headers := []string{"TIME", "PRIORITY", "TYPE", "TASK", "EST", "ID"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			ClockTime(t.ScheduledAt.Time),
			PriorityBadge(t.Priority),
			StylePurple.Render(string(t.Type)),
			Bold(t.Title),
			FormatMinutes(t.EstimatedDuration),
			TruncID(t.ID),
		})
	}
	return RenderTable(headers, rows)
}
