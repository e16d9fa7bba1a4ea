package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/volna-cloud/kontext/internal/domain"
	"github.com/volna-cloud/kontext/internal/metrics"
)

const translateSystemPrompt = "Translate the user message to %s. Reply with the translation only, no explanations."

// Chat is a chat-completion provider using the OpenAI-compatible API.
// It serves both grounded answer generation and query translation.
type Chat struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	provider    string
	logger      *zap.Logger
}

// ChatConfig holds the chat provider settings.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Provider    string
	Logger      *zap.Logger
}

// NewChat creates an OpenAI-compatible chat provider.
func NewChat(cfg *ChatConfig) *Chat {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Chat{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		provider:    cfg.Provider,
		logger:      cfg.Logger,
	}
}

// Generate produces a completion for the system+user prompt pair.
// Failures carry domain.ErrGenerationFailure.
func (c *Chat) Generate(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, "generate", system, user, c.temperature, c.maxTokens)
}

// Translate renders text in the target language. Temperature is pinned to
// zero so translations stay deterministic.
func (c *Chat) Translate(ctx context.Context, text, targetLang string) (string, error) {
	system := fmt.Sprintf(translateSystemPrompt, targetLang)
	out, err := c.complete(ctx, "translate", system, text, 0, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Chat) complete(
	ctx context.Context, op, system, user string, temperature float32, maxTokens int,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if maxTokens > 0 {
		req.MaxTokens = maxTokens
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.provider, c.model, op, "error").Inc()
		return "", fmt.Errorf("chat completion (%s): %v: %w", op, err, domain.ErrGenerationFailure)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(c.provider, c.model, op, "error").Inc()
		return "", fmt.Errorf("empty chat completion (%s): %w", op, domain.ErrGenerationFailure)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.provider, c.model, op, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.provider, c.model, op).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.provider, c.model, "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.provider, c.model, "completion").
			Add(float64(resp.Usage.CompletionTokens))
	}

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels.
func (c *Chat) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}
