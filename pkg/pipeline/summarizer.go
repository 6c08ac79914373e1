package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zubale/querybot/pkg/conversation"
	"github.com/zubale/querybot/pkg/llm"
	"github.com/zubale/querybot/pkg/tokens"
)

const (
	// DefaultMaxTokens is the combined summary + tail token ceiling.
	DefaultMaxTokens = 4096

	// DefaultMaxSummaryTokens caps the summary itself.
	DefaultMaxSummaryTokens = 1024
)

// degradeFactor bounds how far past the ceiling the raw history may grow
// before a failed summarization call becomes fatal instead of degraded.
const degradeFactor = 2

// Summarizer condenses a long conversation history into a bounded summary
// plus a residual tail of recent raw messages.
type Summarizer struct {
	completer        llm.Completer
	counter          tokens.Counter
	maxTokens        int
	maxSummaryTokens int
	logger           *zap.Logger
}

// SummarizerConfig holds configuration for the Summarizer.
type SummarizerConfig struct {
	// Completer generates the summary text.
	Completer llm.Completer

	// Counter measures token budgets.
	Counter tokens.Counter

	// MaxTokens is the combined summary + tail ceiling.
	// Defaults to DefaultMaxTokens if zero.
	MaxTokens int

	// MaxSummaryTokens caps the summary itself.
	// Defaults to DefaultMaxSummaryTokens if zero.
	MaxSummaryTokens int

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(cfg SummarizerConfig) *Summarizer {
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	maxSummaryTokens := cfg.MaxSummaryTokens
	if maxSummaryTokens == 0 {
		maxSummaryTokens = DefaultMaxSummaryTokens
	}

	return &Summarizer{
		completer:        cfg.Completer,
		counter:          cfg.Counter,
		maxTokens:        maxTokens,
		maxSummaryTokens: maxSummaryTokens,
		logger:           cfg.Logger,
	}
}

// Summarize updates the rolling summary and tail on the given state so their
// combined token count stays under the ceiling. When the state is already
// under the ceiling this is an explicit no-op with no model call. The most
// recent message is never folded into the summary.
func (s *Summarizer) Summarize(ctx context.Context, state *conversation.State) error {
	combined := state.SummaryTokens
	for _, msg := range state.TailMessages {
		combined += tokens.CountMessage(s.counter, msg.Content)
	}

	if combined <= s.maxTokens {
		return nil
	}

	// Keep the newest tail messages within the post-summary budget; the
	// rest get folded into the summary. The latest message always stays.
	tailBudget := s.maxTokens - s.maxSummaryTokens
	keepFrom := len(state.TailMessages)
	kept := 0
	for i := len(state.TailMessages) - 1; i >= 0; i-- {
		cost := tokens.CountMessage(s.counter, state.TailMessages[i].Content)
		if keepFrom < len(state.TailMessages) && kept+cost > tailBudget {
			break
		}
		kept += cost
		keepFrom = i
	}

	toFold := state.TailMessages[:keepFrom]
	if len(toFold) == 0 {
		// Only the latest message remains and it alone exceeds the
		// budget; nothing older to fold, so pass through.
		return nil
	}

	summary, err := s.condense(ctx, state.Summary, toFold)
	if err != nil {
		if combined <= degradeFactor*s.maxTokens {
			s.logger.Warn("summarization failed, passing through raw history",
				zap.String("conversation_id", state.ID),
				zap.Int("combined_tokens", combined),
				zap.Error(err),
			)
			return nil
		}
		return fmt.Errorf("summarize stage: %w", err)
	}

	remaining := make([]llm.Message, len(state.TailMessages)-keepFrom)
	copy(remaining, state.TailMessages[keepFrom:])

	state.Summary = summary
	state.SummaryTokens = s.counter.Count(summary)
	state.TailMessages = remaining

	s.logger.Debug("summarized conversation history",
		zap.String("conversation_id", state.ID),
		zap.Int("folded_messages", len(toFold)),
		zap.Int("tail_messages", len(remaining)),
		zap.Int("summary_tokens", state.SummaryTokens),
	)

	return nil
}

// condense calls the completion service to fold the previous summary and the
// given messages into a new summary.
func (s *Summarizer) condense(ctx context.Context, previousSummary string, msgs []llm.Message) (string, error) {
	var b strings.Builder
	if previousSummary != "" {
		b.WriteString("Previous summary:\n")
		b.WriteString(previousSummary)
		b.WriteString("\n\n")
	}
	b.WriteString("Conversation:\n")
	for _, msg := range msgs {
		b.WriteString(msg.Role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}

	summary, err := s.completer.Complete(ctx, llm.CompletionRequest{
		System:      summarySystemInstruction,
		UserMessage: b.String(),
		Temperature: 0,
		MaxTokens:   s.maxSummaryTokens,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(summary), nil
}
