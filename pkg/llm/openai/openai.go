// Package openai implements pkg/llm's Completer on the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/zubale/querybot/pkg/llm"
)

const (
	// DefaultModel is the default chat model.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds a single chat call.
	DefaultTimeout = 60 * time.Second
)

// Completer wraps the OpenAI chat completions API.
type Completer struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// Config holds configuration for the OpenAI completer.
type Config struct {
	// APIKey authenticates against the OpenAI API. Required.
	APIKey string

	// Model is the chat model to use. Defaults to DefaultModel if empty.
	Model string

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string

	// Timeout bounds a single chat call. Defaults to DefaultTimeout if zero.
	Timeout time.Duration
}

// NewCompleter creates a new completer backed by the OpenAI API.
func NewCompleter(cfg Config) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Completer{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}, nil
}

// Complete invokes the chat completions API and returns the generated text.
func (c *Completer) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.PriorTurns)+2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, turn := range req.PriorTurns {
		switch turn.Role {
		case llm.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.UserMessage))

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrCompletion, err)
	}

	if len(completion.Choices) == 0 {
		return "", llm.ErrEmptyResponse
	}

	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", llm.ErrEmptyResponse
	}

	return content, nil
}

// Close releases resources held by the completer.
func (c *Completer) Close() error {
	return nil
}
