package intelligence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/llm"
)

// InsightGenerator drafts pipeline insights. It keeps no state between
// calls.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, snap PipelineSnapshot) ([]domain.Insight, error)
}

type InsightDraft struct {
	Insights       []domain.Insight
	Source         Source
	FallbackReason string
}

// InsightDrafter mirrors TaskDrafter for insights.
type InsightDrafter struct {
	live     InsightGenerator
	fallback InsightGenerator
	logger   *slog.Logger
}

func NewInsightDrafter(client llm.LLMClient, logger *slog.Logger) *InsightDrafter {
	if logger == nil {
		logger = slog.Default()
	}
	d := &InsightDrafter{fallback: MockInsightGenerator{}, logger: logger}
	if client != nil {
		d.live = NewLiveInsightGenerator(client)
	}
	return d
}

func (d *InsightDrafter) Draft(ctx context.Context, snap PipelineSnapshot) InsightDraft {
	reason := ErrNoBackend
	if d.live != nil {
		insights, err := d.live.GenerateInsights(ctx, snap)
		if err == nil {
			return InsightDraft{Insights: stampInsights(insights, snap), Source: SourceLLM}
		}
		reason = err
		d.logger.WarnContext(ctx, "insight generation degraded to mock",
			"user_id", snap.UserID, "error", err.Error())
	}

	insights, _ := d.fallback.GenerateInsights(ctx, snap)
	return InsightDraft{
		Insights:       stampInsights(insights, snap),
		Source:         SourceMock,
		FallbackReason: reason.Error(),
	}
}

type liveInsightGenerator struct {
	client llm.LLMClient
}

func NewLiveInsightGenerator(client llm.LLMClient) InsightGenerator {
	return &liveInsightGenerator{client: client}
}

func (g *liveInsightGenerator) GenerateInsights(ctx context.Context, snap PipelineSnapshot) ([]domain.Insight, error) {
	prompt, err := buildInsightPrompt(snap)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskInsights,
		SystemPrompt: insightSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		return nil, err
	}

	insights, err := llm.ExtractValidated[[]domain.Insight](resp.Text, insightListSchema, func(list []domain.Insight) error {
		if len(list) < 2 {
			return fmt.Errorf("expected at least 2 insights, got %d", len(list))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return insights, nil
}
