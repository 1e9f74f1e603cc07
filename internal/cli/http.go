package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyunet/memory-mcp-server/internal/api"
	"github.com/smallyunet/memory-mcp-server/internal/config"
)

// NewHTTPCmd creates the 'http' command for running the REST API.
func NewHTTPCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Run the REST API server",
		Long: `Start the memory-mcp REST API.

Endpoints:
  POST /record_command          - Save a command with optional tags
  GET  /commands                - List recorded commands, newest first
  GET  /commands/search         - Full-text search over the history
  GET  /stats                   - Usage statistics
  GET  /preferences             - Holistic preference summary
  POST /preferences/contextual  - Preferences scoped to a task context
  GET  /healthz                 - Health check`,
		Example: `  # Listen on the configured address (default 127.0.0.1:8000)
  memory-mcp http

  # Override the listen address
  memory-mcp http --addr 0.0.0.0:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTTP(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}

// runHTTP starts the REST API with graceful shutdown on SIGINT/SIGTERM.
func runHTTP(addr string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if addr == "" {
		addr = cfg.Settings.HTTPAddr
	}

	logger := getLogger()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	index := buildIndex(store, logger)
	if index != nil {
		defer index.Close()
	} else {
		logger.Warn("running without full-text search")
	}

	server := api.NewServer(addr, store, index, newEngine(cfg), logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil

	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
