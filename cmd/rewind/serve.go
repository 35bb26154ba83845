package main

import (
	"os/signal"
	"syscall"

	"github.com/aretw0/rewind/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes a counter store over a JSON API (see /openapi.yaml and /swagger)
with Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return cli.Serve(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().Bool("validate", true, "Validate requests against the OpenAPI document")
}
