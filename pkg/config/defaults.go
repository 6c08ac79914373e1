package config

const (
	defaultAPIListen = ":8080"

	defaultVectorProvider   = "chroma"
	defaultVectorTarget     = "http://localhost:8000"
	defaultVectorCollection = "products"

	defaultTopK = 3

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultLLMProvider       = "ollama"
	defaultLLMTarget         = "http://localhost:11434"
	defaultLLMModel          = "llama3.2"
	defaultLLMTimeoutSeconds = 120

	defaultSummarizerMaxTokens        = 4096
	defaultSummarizerMaxSummaryTokens = 1024
	defaultSummarizerCounter          = "approximate"

	defaultConversationsProvider   = "memory"
	defaultConversationsMaxEntries = 1024

	defaultClientAPITarget = "http://localhost:8080"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		VectorStore: VectorStoreConfig{
			Provider:   defaultVectorProvider,
			Target:     defaultVectorTarget,
			Collection: defaultVectorCollection,
		},
		Retrieval: RetrievalConfig{
			TopK: defaultTopK,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		LLM: LLMConfig{
			Provider:       defaultLLMProvider,
			Target:         defaultLLMTarget,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Summarizer: SummarizerConfig{
			MaxTokens:        defaultSummarizerMaxTokens,
			MaxSummaryTokens: defaultSummarizerMaxSummaryTokens,
			Counter:          defaultSummarizerCounter,
		},
		Conversations: ConversationsConfig{
			Provider:   defaultConversationsProvider,
			MaxEntries: defaultConversationsMaxEntries,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
	}
}
