package llm

import (
	"context"
	"fmt"
)

// NewClient selects the backend named by cfg.Provider. The mock provider
// yields a nil client, which every generator treats as "use the
// deterministic fallback".
func NewClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if !cfg.LogCalls || observer == nil {
		observer = NoopObserver{}
	}
	switch cfg.Provider {
	case ProviderMock, "":
		return nil, nil
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	case ProviderOpenAI:
		return NewOpenAIClient(ctx, cfg, observer)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, observer)
	}
	return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.Provider)
}
