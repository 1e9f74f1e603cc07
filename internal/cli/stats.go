package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/config"
)

// NewStatsCmd creates the 'stats' command for usage statistics.
func NewStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics",
		Long: `Display the total command count, the most used tags, and the UTC
hours with the most recorded activity.`,
		Example: `  memory-mcp stats
  memory-mcp stats --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runStats displays history statistics.
func runStats(jsonOutput bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openStore(cfg, getLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Total commands: %d\n", stats.TotalCommands)

	if len(stats.TopKeywords) > 0 {
		fmt.Println("\nTop tags:")
		for i, keyword := range stats.TopKeywords {
			fmt.Printf("  %d. %s\n", i+1, keyword)
		}
	}

	if len(stats.ActiveHours) > 0 {
		fmt.Println("\nMost active hours (UTC):")
		for _, hour := range stats.ActiveHours {
			fmt.Printf("  %s\n", hour)
		}
	}

	return nil
}
