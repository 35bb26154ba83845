package main

import (
	"os"

	"github.com/aretw0/rewind/internal/cli"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Drive the demo counter interactively",
	Long:  `Starts a line-oriented session on a counter store. Type 'help' for the list of commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.RunREPL(cfg, os.Stdin, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	// 'repl' is the default when no command is provided.
	rootCmd.RunE = replCmd.RunE
}
