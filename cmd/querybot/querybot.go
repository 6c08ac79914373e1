// Package querybotcmder
package querybotcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/zubale/querybot/cmd/querybot/chat"
	configcmder "github.com/zubale/querybot/cmd/querybot/config"
	ingestcmder "github.com/zubale/querybot/cmd/querybot/ingest"
	servecmder "github.com/zubale/querybot/cmd/querybot/serve"
)

const querybotLongDesc string = `Querybot is a conversational product-support assistant.

It answers product questions grounded in a vector-store catalog, keeps
per-user conversation history, and asks for clarification when a
follow-up question does not name a product.

Common commands:
  querybot serve     Run the query API server
  querybot ingest    Load a product catalog CSV into the vector store
  querybot chat      Interactive chat against a running server
  querybot config    Manage persistent configuration`

const querybotShortDesc string = "Querybot - Conversational product support"

func NewQuerybotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "querybot",
		Short: querybotShortDesc,
		Long:  querybotLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml (default: current directory)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())

	return cmd
}
