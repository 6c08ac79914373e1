// Package pipeline implements the conversation-state and
// retrieval-augmented-answer pipeline: summarize history, enhance the query
// and retrieve documents, classify context ambiguity, generate a grounded
// answer, and persist the updated conversation state.
package pipeline

import (
	"github.com/zubale/querybot/pkg/conversation"
	"github.com/zubale/querybot/pkg/vector"
)

// Turn threads one request through the pipeline stages. It is created at
// request entry and discarded after the updated conversation state is
// persisted. Each stage writes only the fields it owns.
type Turn struct {
	// ConversationID is the caller-supplied conversation identifier.
	ConversationID string

	// State is the working copy of the conversation state. The store's
	// copy is replaced only when the whole turn succeeds.
	State *conversation.State

	// EnhancedQuery is the retrieval query built by the enhancement stage.
	EnhancedQuery string

	// Documents are the retrieved candidates, relevance-ranked, scoped to
	// this turn only.
	Documents []vector.QueryResult

	// HasClearContext is the ambiguity classifier's verdict.
	HasClearContext bool

	// Generation is the final answer text.
	Generation string
}
