// Package conversation provides per-conversation state and the stores that
// persist it across turns.
//
// A ConversationState holds the full raw message history plus a rolling
// summary and the tail of recent raw messages not yet folded into it. The
// summary and tail together stand in for the full history when building
// prompts; the invariant is that they never drop the most recent exchange.
package conversation

import (
	"strings"

	"github.com/zubale/querybot/pkg/llm"
)

// State is the persisted state of one conversation.
type State struct {
	// ID is the caller-supplied conversation identifier.
	ID string `json:"id"`

	// Messages is the full raw history, append-only, oldest first.
	Messages []llm.Message `json:"messages"`

	// Summary is the condensed text of everything summarized so far.
	// Empty means summarization has not run yet.
	Summary string `json:"summary,omitempty"`

	// SummaryTokens is the token count of Summary as measured when it was
	// produced, carried so the summarizer can budget without recounting.
	SummaryTokens int `json:"summary_tokens,omitempty"`

	// TailMessages is the suffix of Messages not yet folded into Summary,
	// kept verbatim so short-term detail survives summarization.
	TailMessages []llm.Message `json:"tail_messages,omitempty"`
}

// NewState creates an empty conversation state for the given id.
func NewState(id string) *State {
	return &State{ID: id}
}

// Clone returns a deep copy of the state. Pipeline turns work on a clone so
// a failed turn leaves the stored state untouched.
func (s *State) Clone() *State {
	clone := &State{
		ID:            s.ID,
		Summary:       s.Summary,
		SummaryTokens: s.SummaryTokens,
	}
	if len(s.Messages) > 0 {
		clone.Messages = make([]llm.Message, len(s.Messages))
		copy(clone.Messages, s.Messages)
	}
	if len(s.TailMessages) > 0 {
		clone.TailMessages = make([]llm.Message, len(s.TailMessages))
		copy(clone.TailMessages, s.TailMessages)
	}
	return clone
}

// Append adds a message to the raw history and the tail.
func (s *State) Append(role, content string) {
	msg := llm.Message{Role: role, Content: content}
	s.Messages = append(s.Messages, msg)
	s.TailMessages = append(s.TailMessages, msg)
}

// LastUserMessage returns the content of the most recent user message in the
// raw history, or "" when there is none.
func (s *State) LastUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == llm.RoleUser {
			return s.Messages[i].Content
		}
	}
	return ""
}

// SummarizedMessages returns the condensed view of the conversation: the
// summary (when present) as a leading system message, followed by the raw
// tail. When summarization has not run this is simply the full history.
func (s *State) SummarizedMessages() []llm.Message {
	if s.Summary == "" && len(s.TailMessages) == 0 {
		return s.Messages
	}

	msgs := make([]llm.Message, 0, len(s.TailMessages)+1)
	if s.Summary != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: "Summary of the conversation so far: " + s.Summary})
	}
	return append(msgs, s.TailMessages...)
}

// CondensedContext concatenates the non-empty contents of the summarized
// message set, order preserved, separated by single spaces. It is the
// "what has been discussed so far" proxy used by query enhancement and
// ambiguity classification.
func (s *State) CondensedContext() string {
	parts := make([]string, 0, len(s.TailMessages)+1)
	for _, msg := range s.SummarizedMessages() {
		if msg.Content != "" {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, " ")
}
