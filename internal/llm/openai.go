package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// chatModelClient implements LLMClient on an eino chat model backed by any
// OpenAI-compatible chat-completions endpoint.
type chatModelClient struct {
	cfg     LLMConfig
	chat    model.BaseChatModel
	retrier retrier
}

// NewOpenAIClient builds the chat model once; Endpoint, when set, replaces
// the default OpenAI base URL.
func NewOpenAIClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai requires an API key", ErrNotConfigured)
	}
	if observer == nil {
		observer = NoopObserver{}
	}

	modelCfg := &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}
	if cfg.Endpoint != "" {
		modelCfg.BaseURL = cfg.Endpoint
	}
	chat, err := openai.NewChatModel(ctx, modelCfg)
	if err != nil {
		return nil, fmt.Errorf("creating openai chat model: %w", err)
	}
	return newChatModelClient(cfg, chat, ProviderOpenAI, observer), nil
}

func newChatModelClient(cfg LLMConfig, chat model.BaseChatModel, provider Provider, observer Observer) *chatModelClient {
	return &chatModelClient{
		cfg:     cfg,
		chat:    chat,
		retrier: retrier{cfg: cfg, provider: provider, observer: observer},
	}
}

func (c *chatModelClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := c.cfg.taskParams(req)

	var messages []*schema.Message
	if req.SystemPrompt != "" {
		messages = append(messages, schema.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, schema.UserMessage(req.UserPrompt))

	opts := []model.Option{model.WithTemperature(float32(temp))}
	if maxTok > 0 {
		opts = append(opts, model.WithMaxTokens(maxTok))
	}

	return c.retrier.run(ctx, req.Task, func(ctx context.Context) (string, string, error) {
		msg, err := c.chat.Generate(ctx, messages, opts...)
		if err != nil {
			return "", "", err
		}
		return msg.Content, c.cfg.Model, nil
	})
}

// Available reports whether the chat model was constructed; hosted
// endpoints are not probed.
func (c *chatModelClient) Available(context.Context) bool {
	return c.chat != nil
}
