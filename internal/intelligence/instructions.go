package intelligence

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
)

// InstructionSource lists the instructions currently in force for a seller.
type InstructionSource interface {
	ListActiveByUser(ctx context.Context, userID string, now time.Time) ([]*domain.AICustomInstructions, error)
}

// InstructionsFetcher renders a seller's custom instructions for prompts.
type InstructionsFetcher struct {
	source InstructionSource
	now    func() time.Time
	logger *slog.Logger
}

func NewInstructionsFetcher(source InstructionSource, logger *slog.Logger) *InstructionsFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstructionsFetcher{source: source, now: time.Now, logger: logger}
}

// Fetch returns the formatted block, or "" when there is nothing to add or
// the store could not be read.
func (f *InstructionsFetcher) Fetch(ctx context.Context, userID string) string {
	if f == nil || f.source == nil {
		return ""
	}
	list, err := f.source.ListActiveByUser(ctx, userID, f.now())
	if err != nil {
		f.logger.WarnContext(ctx, "custom instructions unavailable", "user_id", userID, "error", err.Error())
		return ""
	}
	return FormatCustomInstructions(list)
}

var instructionGroups = []struct {
	level  domain.Level
	header string
}{
	{domain.LevelHigh, "HIGH PRIORITY INSTRUCTIONS (must follow):"},
	{domain.LevelMedium, "MEDIUM PRIORITY INSTRUCTIONS:"},
	{domain.LevelLow, "LOW PRIORITY INSTRUCTIONS (nice to have):"},
}

// FormatCustomInstructions groups instructions by priority, high first.
// Unknown priorities count as medium; empty groups are omitted.
func FormatCustomInstructions(list []*domain.AICustomInstructions) string {
	grouped := make(map[domain.Level][]string)
	for _, in := range list {
		if in == nil {
			continue
		}
		text := strings.TrimSpace(in.Instructions)
		if text == "" {
			continue
		}
		level := in.Priority
		if !domain.ValidLevels[level] {
			level = domain.LevelMedium
		}
		grouped[level] = append(grouped[level], text)
	}

	var sections []string
	for _, g := range instructionGroups {
		items := grouped[g.level]
		if len(items) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(g.header)
		for _, item := range items {
			b.WriteString("\n- ")
			b.WriteString(item)
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n\n")
}
