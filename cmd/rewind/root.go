package main

import (
	"fmt"
	"os"

	"github.com/aretw0/rewind/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rewind",
	Short: "Rewind adds commit, undo, redo and goto to a reducer",
	Long: `Rewind wraps a reducer with a history log. This CLI drives a demo counter
through an interactive REPL, an HTTP API, an MCP server or scripted scenarios.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for cmd from --config, the
// environment and the command flags.
func loadConfig(cmd *cobra.Command) (cli.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("REWIND_CONFIG")
	}
	return cli.LoadConfig(path, cmd.Flags())
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file (env REWIND_CONFIG)")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every store event to stderr")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("initial-message", "", "Label of the first history entry")
}
