// Package servecmder provides the serve command for running the query API server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zubale/querybot/api"
	"github.com/zubale/querybot/pkg/config"
	conversationutils "github.com/zubale/querybot/pkg/conversation/utils"
	ollamaembed "github.com/zubale/querybot/pkg/embeddings/ollama"
	llmutils "github.com/zubale/querybot/pkg/llm/utils"
	"github.com/zubale/querybot/pkg/logger"
	"github.com/zubale/querybot/pkg/pipeline"
	tokenutils "github.com/zubale/querybot/pkg/tokens/utils"
	vectorutils "github.com/zubale/querybot/pkg/vector/utils"
)

type serveCommander struct {
	listen    string
	configDir string
	debug     bool

	cfg    *config.Config
	logger *zap.Logger
}

const serveLongDesc string = `Run the query API server.

The server exposes:
  POST /query    Answer a product question for a user conversation
  GET  /health   Health check

Configuration is read from config.toml in the config directory (or the
current directory), overridable with QUERYBOT_* environment variables
and flags.`

const serveShortDesc string = "Run the query API server"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}
			cmder.cfg = config.FromViper(v)

			if cmd.Flags().Changed("listen") {
				cmder.cfg.API.Listen = cmder.listen
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", defaults.API.Listen, "Address for the API server to listen on")

	return cmd
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	embedder, err := ollamaembed.NewEmbedder(ollamaembed.EmbedderConfig{
		BaseURL: c.cfg.Embedding.Target,
		Model:   c.cfg.Embedding.Model,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	vectorDriver, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
		ProviderType: c.cfg.VectorStore.Provider,
		TargetURL:    c.cfg.VectorStore.Target,
		Collection:   c.cfg.VectorStore.Collection,
		Dimensions:   uint64(c.cfg.Embedding.Dimensions),
		Logger:       c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating vector driver: %w", err)
	}
	defer vectorDriver.Close()

	completer, err := llmutils.NewCompleter(&llmutils.NewCompleterOpts{
		ProviderType: c.cfg.LLM.Provider,
		TargetURL:    c.cfg.LLM.Target,
		Model:        c.cfg.LLM.Model,
		APIKey:       c.cfg.LLM.APIKey,
		Timeout:      time.Duration(c.cfg.LLM.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("creating completer: %w", err)
	}
	defer completer.Close()

	counter, err := tokenutils.NewCounter(c.cfg.Summarizer.Counter)
	if err != nil {
		return fmt.Errorf("creating token counter: %w", err)
	}

	store, err := conversationutils.NewStore(&conversationutils.NewStoreOpts{
		ProviderType: c.cfg.Conversations.Provider,
		SQLitePath:   c.cfg.Conversations.SQLitePath,
		MaxEntries:   c.cfg.Conversations.MaxEntries,
	})
	if err != nil {
		return fmt.Errorf("creating conversation store: %w", err)
	}
	defer store.Close()

	c.logger.Info("wired pipeline",
		zap.String("vector_store", c.cfg.VectorStore.Provider),
		zap.String("llm", c.cfg.LLM.Provider),
		zap.String("model", c.cfg.LLM.Model),
		zap.String("conversations", c.cfg.Conversations.Provider),
	)

	p := pipeline.NewPipeline(pipeline.Config{
		Store: store,
		Summarizer: pipeline.NewSummarizer(pipeline.SummarizerConfig{
			Completer:        completer,
			Counter:          counter,
			MaxTokens:        c.cfg.Summarizer.MaxTokens,
			MaxSummaryTokens: c.cfg.Summarizer.MaxSummaryTokens,
			Logger:           c.logger,
		}),
		Retriever: pipeline.NewRetriever(pipeline.RetrieverConfig{
			Embedder: embedder,
			Driver:   vectorDriver,
			TopK:     c.cfg.Retrieval.TopK,
			Logger:   c.logger,
		}),
		Responder: pipeline.NewResponder(completer, c.logger),
		Logger:    c.logger,
	})

	server := api.NewServer(api.Config{ListenAddr: c.cfg.API.Listen}, p, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}
