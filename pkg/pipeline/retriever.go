package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zubale/querybot/pkg/embeddings"
	"github.com/zubale/querybot/pkg/vector"
)

// DefaultTopK is the default number of documents fetched per turn.
const DefaultTopK = 3

// Retriever embeds the enhanced query and fetches the top-K most similar
// documents from the vector store.
type Retriever struct {
	embedder embeddings.Embedder
	driver   vector.Driver
	topK     int
	logger   *zap.Logger
}

// RetrieverConfig holds configuration for the Retriever.
type RetrieverConfig struct {
	// Embedder converts the query into an embedding.
	Embedder embeddings.Embedder

	// Driver is the vector store queried for similar documents.
	Driver vector.Driver

	// TopK is the number of documents to fetch. Defaults to DefaultTopK
	// if zero.
	TopK int

	// Logger is the provided zap logger.
	Logger *zap.Logger
}

// NewRetriever creates a new Retriever.
func NewRetriever(cfg RetrieverConfig) *Retriever {
	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	return &Retriever{
		embedder: cfg.Embedder,
		driver:   cfg.Driver,
		topK:     topK,
		logger:   cfg.Logger,
	}
}

// Retrieve returns up to topK documents ranked by relevance to the query.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]vector.QueryResult, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.driver.Query(ctx, embedding, r.topK)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	r.logger.Debug("retrieved documents",
		zap.String("query", query),
		zap.Int("count", len(results)),
	)

	return results, nil
}
