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

	"github.com/smallyunet/memory-mcp-server/internal/config"
	"github.com/smallyunet/memory-mcp-server/internal/mcp"
	"github.com/smallyunet/memory-mcp-server/internal/version"
)

// NewServeCmd creates the 'serve' command for running the MCP server.
//
// This is the command AI agents launch. It exposes the memory tools over
// stdio transport:
// record_command, commands, stats, preferences, contextual_preferences,
// memory_context, search_commands, help
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server (stdio transport)",
		Long: `Start the memory-mcp server using stdio transport.

The server exposes the command memory to AI clients:
  • record_command          - Save a command with optional tags
  • commands                - List recorded commands, newest first
  • stats                   - Usage statistics
  • preferences             - Holistic preference summary
  • contextual_preferences  - Preferences scoped to a task context
  • memory_context          - Compact recent-history block
  • search_commands         - Full-text search over the history
  • help                    - Tool overview

The search index is rebuilt from the SQLite history on startup.`,
		Example: `  # Run directly
  memory-mcp serve

  # Add to Claude Code
  claude mcp add memory -- memory-mcp serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	return cmd
}

// runServe starts the MCP server with stdio transport and signal handling.
func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
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

	server := mcp.NewServer(store, index, newEngine(cfg), logger)
	server.SetLimits(cfg.Settings.RecentLimit, cfg.Settings.SearchLimit, cfg.Settings.ContextLimit)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	if !cfg.Settings.DisableUpdateCheck {
		go checkForUpdates(logger)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil

	case err := <-errChan:
		// Run returned: stdin closed or a transport error.
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// checkForUpdates checks for a new version in the background.
func checkForUpdates(logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	latest, err := version.CheckUpdate(ctx)
	if err != nil {
		logger.Debug("update check failed", zap.Error(err))
		return
	}
	if latest != "" {
		logger.Info("update available",
			zap.String("latest", latest),
			zap.String("current", version.Version))
	}
}
