// Package llm adapts an OpenAI-compatible chat-completion service to domain.Completer.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/runoshun/focus-pilot/internal/domain"
)

// Sampling parameters sent with every request.
const (
	Temperature = 0.7
	MaxTokens   = 1000
)

// ErrEmptyResponse is returned when the service produced no choices.
var ErrEmptyResponse = errors.New("completion returned no choices")

// Ensure Client implements domain.Completer.
var _ domain.Completer = (*Client)(nil)

// Client sends system+user exchanges through a langchaingo model.
type Client struct {
	model     llms.Model
	available bool
}

// New creates a Client for the configured service.
// Without an API key the client reports itself unavailable and never dials.
func New(cfg domain.LLMConfig) (*Client, error) {
	if !cfg.HasAPIKey() {
		return &Client{}, nil
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}
	return &Client{model: model, available: true}, nil
}

// NewWithModel wraps an existing model. It is always available.
func NewWithModel(model llms.Model) *Client {
	return &Client{model: model, available: model != nil}
}

// Available reports whether a credential is configured.
func (c *Client) Available() bool {
	return c.available
}

// Complete returns the text of the first choice.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if !c.available {
		return "", domain.ErrNoCredential
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(Temperature),
		llms.WithMaxTokens(MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
