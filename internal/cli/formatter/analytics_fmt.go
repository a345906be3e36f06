package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stefanorainone/sales-management/internal/service"
)

// FormatAnalytics renders the period summary.
func FormatAnalytics(a *service.Analytics) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Analytics: %s (%s)", a.UserID, a.TimePeriod)) + "\n")

	rateStyle := StyleGreen
	switch {
	case a.CompletionRate < 50:
		rateStyle = StyleRed
	case a.CompletionRate < 80:
		rateStyle = StyleYellow
	}
	b.WriteString(fmt.Sprintf("Tasks %d, completed %d, rate %s\n",
		a.TotalTasks, a.CompletedTasks, rateStyle.Render(fmt.Sprintf("%.1f%%", a.CompletionRate))))
	b.WriteString(fmt.Sprintf("Avg duration: estimated %.1fm, actual %.1fm\n", a.AvgEstimatedDuration, a.AvgActualDuration))
	b.WriteString(fmt.Sprintf("Activities logged: %d\n", a.ActivityCount))

	if len(a.OpenDealsByStage) > 0 {
		rows := make([][]string, 0, len(a.OpenDealsByStage))
		for stage, n := range a.OpenDealsByStage {
			rows = append(rows, []string{string(stage), fmt.Sprint(n)})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
		b.WriteString("\n" + RenderTable([]string{"STAGE", "OPEN DEALS"}, rows))
	}
	return b.String()
}
