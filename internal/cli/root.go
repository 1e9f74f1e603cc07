/*
Package cli implements the command-line interface for memory-mcp.

Each command is implemented as a separate function that returns a
*cobra.Command, allowing for clean separation and easy testing.
*/
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/smallyunet/memory-mcp-server/internal/config"
	"github.com/smallyunet/memory-mcp-server/internal/prefs"
	"github.com/smallyunet/memory-mcp-server/internal/search"
	"github.com/smallyunet/memory-mcp-server/internal/storage"
	"github.com/smallyunet/memory-mcp-server/internal/version"
)

var (
	verbose bool
	logger  *zap.Logger
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "memory-mcp",
		Short: "Personal command memory for AI CLI agents",
		Long: `memory-mcp records the commands you run and serves inferred
preferences back to AI agents over MCP (stdio) or REST.

It keeps a single-user history in SQLite and derives:
  • holistic preferences  - preferred language, common tasks, style
  • contextual preferences - preferences scoped to the task at hand
  • memory context         - a compact recent-history block

Logs go to stderr; stdout is reserved for MCP traffic.`,
		Version: version.GetVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zapCfg := zap.NewProductionConfig()
			zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if verbose {
				zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zapCfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewHTTPCmd())
	rootCmd.AddCommand(NewRecordCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewStatsCmd())
	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewExportCmd())
	rootCmd.AddCommand(NewSetupCmd())
	rootCmd.AddCommand(NewRemoveCmd())
	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewBenchmarkCmd())
	rootCmd.AddCommand(NewVersionCmd())

	// Preferences command with contextual subcommand
	prefsCmd := NewPreferencesCmd()
	prefsCmd.AddCommand(NewContextualPreferencesCmd())
	rootCmd.AddCommand(prefsCmd)

	return rootCmd
}

// getLogger returns the CLI logger, or a no-op logger when a run function
// is invoked outside the cobra lifecycle.
func getLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// openStore opens and initializes the SQLite history store.
func openStore(cfg *config.Config, logger *zap.Logger) (*storage.SQLiteStore, error) {
	store := storage.New(cfg.Settings.DatabasePath, logger)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// newEngine builds a preference engine from the configured knobs.
func newEngine(cfg *config.Config) *prefs.Engine {
	return prefs.NewEngine(prefs.Options{TopTasks: cfg.Settings.TopTasks})
}

// buildIndex loads the recorded history into an in-memory search index.
// Returns nil when indexing fails; callers treat nil as search disabled.
func buildIndex(store storage.Store, logger *zap.Logger) *search.Index {
	index, err := search.NewIndex(logger)
	if err != nil {
		logger.Warn("search index unavailable", zap.Error(err))
		return nil
	}

	records, err := store.ListCommands(0)
	if err != nil {
		logger.Warn("failed to load history for indexing", zap.Error(err))
		index.Close()
		return nil
	}
	if err := index.IndexCommands(records); err != nil {
		logger.Warn("failed to index history", zap.Error(err))
		index.Close()
		return nil
	}
	return index
}
