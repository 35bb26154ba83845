package main

import (
	"github.com/aretw0/rewind/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario>",
	Short: "Replay a scenario file against the demo counter",
	Long: `Loads a YAML or JSON scenario, dispatches its steps one by one and checks
the expected errors and the final state. Exits non-zero when an expectation fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.Replay(cmd.Context(), cfg, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
