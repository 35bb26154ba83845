package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/rewind/pkg/adapters/mcp"
)

// ServeMCP runs the MCP server on the configured transport.
func ServeMCP(ctx context.Context, cfg Config) error {
	logger := NewLogger(cfg.Log)
	srv := mcp.NewServer(NewCounterStore(cfg, logger), logger)

	switch cfg.MCP.Transport {
	case "stdio":
		logger.Info("Starting Rewind MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("Starting Rewind MCP Server (SSE)", "port", cfg.MCP.Port)
		if err := srv.ServeSSE(ctx, cfg.MCP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", cfg.MCP.Transport)
	}
}
