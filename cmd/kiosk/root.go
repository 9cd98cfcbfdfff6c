package main

import (
	"fmt"
	"os"

	"github.com/aretw0/kiosk/internal/cli"
	"github.com/aretw0/kiosk/pkg/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Kiosk is a board-state engine for drag-and-drop layouts",
	Long: `Kiosk keeps ordered lists of items copied from a fixed catalog.
Drop events copy templates onto the board, reorder items within a list,
or move them between lists. The engine is exposed over HTTP, MCP and a
line-oriented replay mode.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("catalog", "", "Directory of Markdown templates (overrides config)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of every operation")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: 'text' or 'json' (overrides config)")
	rootCmd.PersistentFlags().Bool("deterministic-ids", false, "Use sequential ids (id-1, id-2, ...) instead of UUIDs")
}

// loadConfig merges the config file, environment and persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.Catalog.Path, _ = cmd.Flags().GetString("catalog")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format, _ = cmd.Flags().GetString("log-format")
	}
	if det, _ := cmd.Flags().GetBool("deterministic-ids"); det {
		cfg.Board.IDs = config.IDsSequence
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildRuntime loads configuration and constructs the engine for a subcommand.
func buildRuntime(cmd *cobra.Command) (*config.Config, *cli.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logger := cli.NewLogger(cfg.Log, debug)

	rt, err := cli.BuildEngine(cfg, logger, debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rt, nil
}
