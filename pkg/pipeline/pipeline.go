package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zubale/querybot/pkg/conversation"
	"github.com/zubale/querybot/pkg/llm"
	"github.com/zubale/querybot/pkg/utils"
)

// ErrValidation is returned when the conversation id or query is empty.
var ErrValidation = errors.New("invalid request")

// Pipeline wires the stages into one sequential turn:
// Summarize → Enhance & Retrieve → Classify → Respond → Persist.
//
// Turns on the same conversation id serialize behind the store's per-id
// lock; turns on different ids run in parallel. A turn is atomic: the store
// sees the updated state only after every stage has succeeded.
type Pipeline struct {
	store      conversation.Store
	summarizer *Summarizer
	retriever  *Retriever
	responder  *Responder
	logger     *zap.Logger
}

// Config holds the stage dependencies for a Pipeline.
type Config struct {
	Store      conversation.Store
	Summarizer *Summarizer
	Retriever  *Retriever
	Responder  *Responder
	Logger     *zap.Logger
}

// NewPipeline creates a new Pipeline.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{
		store:      cfg.Store,
		summarizer: cfg.Summarizer,
		retriever:  cfg.Retriever,
		responder:  cfg.Responder,
		logger:     cfg.Logger,
	}
}

// Run processes one turn for the given conversation and returns the
// completed Turn, including the generated answer.
func (p *Pipeline) Run(ctx context.Context, conversationID, query string) (*Turn, error) {
	if conversationID == "" || query == "" {
		return nil, ErrValidation
	}

	release := p.store.Acquire(conversationID)
	defer release()

	state, err := p.store.Load(ctx, conversationID)
	if errors.Is(err, conversation.ErrNotFound) {
		state = conversation.NewState(conversationID)
	} else if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}

	state.Append(llm.RoleUser, query)

	turn := &Turn{
		ConversationID: conversationID,
		State:          state,
	}

	if err := p.summarizer.Summarize(ctx, state); err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	condensed := state.CondensedContext()
	turn.EnhancedQuery = EnhanceQuery(state.LastUserMessage(), condensed)

	p.logger.Debug("enhanced query",
		zap.String("conversation_id", conversationID),
		zap.String("query", utils.Truncate(turn.EnhancedQuery, 200)),
	)

	turn.Documents, err = p.retriever.Retrieve(ctx, turn.EnhancedQuery)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	turn.HasClearContext = ClassifyContext(query, condensed)

	if err := p.responder.Respond(ctx, turn); err != nil {
		return nil, fmt.Errorf("respond: %w", err)
	}

	if err := p.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("persisting conversation: %w", err)
	}

	p.logger.Info("turn completed",
		zap.String("conversation_id", conversationID),
		zap.Bool("has_clear_context", turn.HasClearContext),
		zap.Int("documents", len(turn.Documents)),
		zap.Int("history_len", len(state.Messages)),
	)

	return turn, nil
}
