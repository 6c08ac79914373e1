package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zubale/querybot/pkg/config"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from config.toml. Keys use dotted
notation matching the TOML section structure.

Examples:
  querybot config get llm.model
  querybot config get vector_store.provider`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(args[0], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runGet(key, configDir string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Printf("\n  %s %s\n\n",
		keyStyle.Render("Config file:"),
		dimStyle.Render(cfger.Path()),
	)

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Printf("  %s  %s\n\n", keyStyle.Render(key), dimStyle.Render("<not set>"))
	} else {
		fmt.Printf("  %s  %s\n\n", keyStyle.Render(key), valueStyle.Render(value))
	}

	return nil
}
