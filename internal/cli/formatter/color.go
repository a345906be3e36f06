package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/stefanorainone/sales-management/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PriorityBadge returns a colored priority label such as "▲ CRITICAL".
func PriorityBadge(p domain.TaskPriority) string {
	switch p {
	case domain.PriorityCritical:
		return StyleRed.Render("▲ CRITICAL")
	case domain.PriorityHigh:
		return StyleYellow.Render("● HIGH")
	case domain.PriorityLow:
		return StyleDim.Render("○ LOW")
	default:
		return StyleBlue.Render("● MEDIUM")
	}
}

// TaskStatusPill returns a colored status indicator for a task.
func TaskStatusPill(s domain.TaskStatus) string {
	switch s {
	case domain.StatusPending:
		return StyleBlue.Render("○ Pending")
	case domain.StatusInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.StatusCompleted:
		return StyleDim.Render("✔ Done")
	case domain.StatusSnoozed:
		return StyleYellow.Render("◷ Snoozed")
	case domain.StatusSkipped:
		return StyleDim.Render("⊘ Skipped")
	case domain.StatusDismissed:
		return StyleDim.Render("✖ Dismissed")
	default:
		return StyleDim.Render(string(s))
	}
}

// InsightStyle colors an insight by its type.
func InsightStyle(t domain.InsightType) lipgloss.Style {
	switch t {
	case domain.InsightWarning:
		return StyleRed
	case domain.InsightOpportunity:
		return StyleGreen
	case domain.InsightCelebration:
		return StylePurple
	default:
		return StyleBlue
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
