// Package ingestcmder provides the ingest command for loading a product
// catalog CSV into the vector store.
package ingestcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zubale/querybot/pkg/config"
	ollamaembed "github.com/zubale/querybot/pkg/embeddings/ollama"
	"github.com/zubale/querybot/pkg/ingest"
	"github.com/zubale/querybot/pkg/logger"
	vectorutils "github.com/zubale/querybot/pkg/vector/utils"
)

type ingestCommander struct {
	csvPath   string
	configDir string
	debug     bool

	cfg    *config.Config
	logger *zap.Logger
}

const ingestLongDesc string = `Load a product catalog CSV into the vector store.

Each row becomes one searchable document built from its title,
description, category, and brand, with the full row kept as metadata.
Re-running the command upserts rows by product id.

Examples:
  querybot ingest --csv products.csv
  querybot ingest --csv products.csv --config-dir /etc/querybot`

const ingestShortDesc string = "Load a product catalog CSV into the vector store"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			if cmder.csvPath == "" {
				return fmt.Errorf("--csv is required")
			}

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}
			cmder.cfg = config.FromViper(v)

			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.csvPath, "csv", "c", "", "Path to the product catalog CSV")

	return cmd
}

func (c *ingestCommander) run(ctx context.Context) error {
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

	ingester := ingest.NewIngester(embedder, vectorDriver, c.logger)

	count, err := ingester.IngestPath(ctx, c.csvPath)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", c.csvPath, err)
	}

	total, err := vectorDriver.Count(ctx)
	if err != nil {
		c.logger.Warn("could not count collection", zap.Error(err))
		total = -1
	}

	c.logger.Info("ingest complete",
		zap.String("csv", c.csvPath),
		zap.Int("ingested", count),
		zap.Int("collection_total", total),
	)

	return nil
}
