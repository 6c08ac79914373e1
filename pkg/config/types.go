package config

// Config represents the persistent querybot configuration stored as
// config.toml. The TOML layout uses sections for logical grouping.
type Config struct {
	Version       int                 `toml:"version"`
	API           APIConfig           `toml:"api"`
	VectorStore   VectorStoreConfig   `toml:"vector_store"`
	Retrieval     RetrievalConfig     `toml:"retrieval"`
	Embedding     EmbeddingConfig     `toml:"embedding"`
	LLM           LLMConfig           `toml:"llm"`
	Summarizer    SummarizerConfig    `toml:"summarizer"`
	Conversations ConversationsConfig `toml:"conversations"`
	Client        ClientConfig        `toml:"client"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// VectorStoreConfig holds vector store settings.
type VectorStoreConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Collection string `toml:"collection,omitempty"`
}

// RetrievalConfig holds retrieval settings.
type RetrievalConfig struct {
	TopK int `toml:"top_k,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// LLMConfig holds completion provider settings.
type LLMConfig struct {
	Provider       string `toml:"provider,omitempty"`
	Target         string `toml:"target,omitempty"`
	Model          string `toml:"model,omitempty"`
	APIKey         string `toml:"api_key,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty"`
}

// SummarizerConfig holds history summarization settings.
type SummarizerConfig struct {
	MaxTokens        int    `toml:"max_tokens,omitempty"`
	MaxSummaryTokens int    `toml:"max_summary_tokens,omitempty"`
	Counter          string `toml:"counter,omitempty"`
}

// ConversationsConfig holds conversation store settings.
type ConversationsConfig struct {
	Provider   string `toml:"provider,omitempty"`
	SQLitePath string `toml:"sqlite_path,omitempty"`
	MaxEntries int    `toml:"max_entries,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to the running
// API server (e.g. querybot chat). Values are full URLs (scheme + host + port).
type ClientConfig struct {
	APITarget string `toml:"api_target,omitempty"`
}
