package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// geminiClient implements LLMClient with the Google Gen AI SDK.
type geminiClient struct {
	cfg     LLMConfig
	client  *genai.Client
	retrier retrier
}

// NewGeminiClient creates an LLMClient for the Gemini API.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini requires an API key", ErrNotConfigured)
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &geminiClient{
		cfg:     cfg,
		client:  client,
		retrier: retrier{cfg: cfg, provider: ProviderGemini, observer: observer},
	}, nil
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := c.cfg.taskParams(req)

	genCfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(temp)),
		ResponseMIMEType: "application/json",
	}
	if maxTok > 0 {
		genCfg.MaxOutputTokens = int32(maxTok)
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	return c.retrier.run(ctx, req.Task, func(ctx context.Context) (string, string, error) {
		resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(req.UserPrompt), genCfg)
		if err != nil {
			return "", "", err
		}
		text := resp.Text()
		if text == "" {
			return "", "", fmt.Errorf("%w: empty gemini response", ErrInvalidOutput)
		}
		return text, c.cfg.Model, nil
	})
}

func (c *geminiClient) Available(context.Context) bool {
	return c.client != nil
}
