package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/zubale/querybot/pkg/llm"
	"github.com/zubale/querybot/pkg/vector"
)

// Responder builds the grounded prompt, calls the completion service, and
// appends the reply to the conversation history.
type Responder struct {
	completer llm.Completer
	logger    *zap.Logger
}

// NewResponder creates a new Responder.
func NewResponder(completer llm.Completer, logger *zap.Logger) *Responder {
	return &Responder{
		completer: completer,
		logger:    logger,
	}
}

// Respond generates the answer for the turn, appends it to the history as an
// assistant message, and records it as the turn's generation.
func (r *Responder) Respond(ctx context.Context, turn *Turn) error {
	contextStr := BuildContext(turn.Documents)

	instruction := clarifySystemInstruction
	if turn.HasClearContext {
		instruction = groundedSystemInstruction
	}

	question := strings.TrimSpace(turn.State.LastUserMessage())
	if question == "" {
		question = PlaceholderQuestion
	}

	answer, err := r.completer.Complete(ctx, llm.CompletionRequest{
		System:      fmt.Sprintf(instruction, contextStr),
		PriorTurns:  turn.State.SummarizedMessages(),
		UserMessage: question,
		Temperature: 0,
	})
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}

	turn.State.Append(llm.RoleAssistant, answer)
	turn.Generation = answer

	r.logger.Debug("generated answer",
		zap.String("conversation_id", turn.ConversationID),
		zap.Bool("has_clear_context", turn.HasClearContext),
		zap.Int("context_chars", len(contextStr)),
	)

	return nil
}

// BuildContext renders the retrieved documents as the prompt context block:
// one "[rank] content\nMETA: metadata" entry per document, joined by blank
// lines, in retrieval rank order. An empty list renders as an empty string.
func BuildContext(docs []vector.QueryResult) string {
	entries := make([]string, 0, len(docs))
	for i, doc := range docs {
		entries = append(entries, fmt.Sprintf("[%d] %s\nMETA: %s", i+1, doc.Content, formatMetadata(doc.Metadata)))
	}
	return strings.Join(entries, "\n\n")
}

// formatMetadata renders metadata as "key=value" pairs in sorted key order
// so prompts are deterministic.
func formatMetadata(metadata map[string]any) string {
	if len(metadata) == 0 {
		return ""
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, metadata[k]))
	}
	return strings.Join(pairs, ", ")
}
