// Package configcmder provides the config command for managing persistent
// querybot configuration stored as config.toml.
package configcmder

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent querybot configuration.

Configuration is stored as config.toml and provides default values for
command flags. CLI flags and QUERYBOT_* environment variables always take
precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen,
  vector_store.provider, vector_store.target, vector_store.collection,
  retrieval.top_k,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  llm.provider, llm.target, llm.model, llm.api_key, llm.timeout_seconds,
  summarizer.max_tokens, summarizer.max_summary_tokens, summarizer.counter,
  conversations.provider, conversations.sqlite_path, conversations.max_entries,
  client.api_target

Use subcommands to get, set, or list configuration values:
  querybot config set <key> <value>    Set a configuration value
  querybot config get <key>            Get a configuration value
  querybot config list                 List all configuration values

Examples:
  querybot config set llm.model llama3.2
  querybot config set embedding.dimensions 768
  querybot config get vector_store.provider
  querybot config list`

const configShortDesc string = "Manage persistent querybot configuration"

var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
)

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
