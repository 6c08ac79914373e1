package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// from the given directory (if present), and binds environment variables
// with the QUERYBOT_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command layer)
//  2. Environment variables (QUERYBOT_API_LISTEN, QUERYBOT_LLM_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: QUERYBOT_API_LISTEN, QUERYBOT_LLM_API_KEY, etc.
	v.SetEnvPrefix("QUERYBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// API
	v.SetDefault("api.listen", d.API.Listen)

	// Vector store
	v.SetDefault("vector_store.provider", d.VectorStore.Provider)
	v.SetDefault("vector_store.target", d.VectorStore.Target)
	v.SetDefault("vector_store.collection", d.VectorStore.Collection)

	// Retrieval
	v.SetDefault("retrieval.top_k", d.Retrieval.TopK)

	// Embedding
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)

	// LLM
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.target", d.LLM.Target)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.timeout_seconds", d.LLM.TimeoutSeconds)

	// Summarizer
	v.SetDefault("summarizer.max_tokens", d.Summarizer.MaxTokens)
	v.SetDefault("summarizer.max_summary_tokens", d.Summarizer.MaxSummaryTokens)
	v.SetDefault("summarizer.counter", d.Summarizer.Counter)

	// Conversations
	v.SetDefault("conversations.provider", d.Conversations.Provider)
	v.SetDefault("conversations.sqlite_path", d.Conversations.SQLitePath)
	v.SetDefault("conversations.max_entries", d.Conversations.MaxEntries)

	// Client
	v.SetDefault("client.api_target", d.Client.APITarget)
}

// FromViper materializes a Config from the given viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		API: APIConfig{
			Listen: v.GetString("api.listen"),
		},
		VectorStore: VectorStoreConfig{
			Provider:   v.GetString("vector_store.provider"),
			Target:     v.GetString("vector_store.target"),
			Collection: v.GetString("vector_store.collection"),
		},
		Retrieval: RetrievalConfig{
			TopK: v.GetInt("retrieval.top_k"),
		},
		Embedding: EmbeddingConfig{
			Provider:   v.GetString("embedding.provider"),
			Target:     v.GetString("embedding.target"),
			Model:      v.GetString("embedding.model"),
			Dimensions: v.GetUint("embedding.dimensions"),
		},
		LLM: LLMConfig{
			Provider:       v.GetString("llm.provider"),
			Target:         v.GetString("llm.target"),
			Model:          v.GetString("llm.model"),
			APIKey:         v.GetString("llm.api_key"),
			TimeoutSeconds: v.GetInt("llm.timeout_seconds"),
		},
		Summarizer: SummarizerConfig{
			MaxTokens:        v.GetInt("summarizer.max_tokens"),
			MaxSummaryTokens: v.GetInt("summarizer.max_summary_tokens"),
			Counter:          v.GetString("summarizer.counter"),
		},
		Conversations: ConversationsConfig{
			Provider:   v.GetString("conversations.provider"),
			SQLitePath: v.GetString("conversations.sqlite_path"),
			MaxEntries: v.GetInt("conversations.max_entries"),
		},
		Client: ClientConfig{
			APITarget: v.GetString("client.api_target"),
		},
	}
}
