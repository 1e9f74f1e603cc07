package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/benchmark"
	"github.com/smallyunet/memory-mcp-server/internal/config"
)

// NewBenchmarkCmd creates the 'benchmark' command for token footprint
// comparison.
func NewBenchmarkCmd() *cobra.Command {
	var context string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Compare token cost: full history dump vs contextual memory",
		Long: `Estimate how many context tokens the memory server saves.

FULL DUMP:
  Paste the entire recorded history into the agent context.

MEMORY-MCP:
  Serve a contextual preference summary for the task at hand.

The benchmark runs the real inference pipeline over your recorded
history and compares the JSON payload sizes.`,
		Example: `  # Benchmark with the default sample context
  memory-mcp benchmark

  # Benchmark a specific task context
  memory-mcp benchmark --context "deploy the api to staging"

  # Output as JSON
  memory-mcp benchmark --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(context, limit, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&context, "context", "c", "fix the failing tests", "Task context to benchmark")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Recent commands to consider (default from config)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runBenchmark executes the token footprint benchmark.
func runBenchmark(context string, limit int, jsonOutput bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if limit == 0 {
		limit = cfg.Settings.ContextLimit
	}

	store, err := openStore(cfg, getLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListCommands(0)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no commands recorded yet, run 'memory-mcp record' first")
	}

	result, err := benchmark.Run(newEngine(cfg), records, context, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println()
	fmt.Print(benchmark.FormatResult(result))
	fmt.Println()

	return nil
}
