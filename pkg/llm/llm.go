// Package llm provides interfaces and types for text-completion providers.
package llm

import "context"

// Message roles used throughout the system.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one call to a text-completion provider.
type CompletionRequest struct {
	// System is the system instruction prepended to the conversation.
	System string

	// PriorTurns are the summarized prior conversation turns, oldest first.
	PriorTurns []Message

	// UserMessage is the current user-facing question.
	UserMessage string

	// Temperature is the sampling temperature. Grounding requires 0.
	Temperature float64

	// MaxTokens bounds the generated output. Zero means provider default.
	MaxTokens int
}

// Completer generates text completions from a conversation.
type Completer interface {
	// Complete invokes the completion provider and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Close releases any resources held by the completer.
	Close() error
}
