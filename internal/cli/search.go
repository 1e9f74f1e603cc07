package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/config"
)

// NewSearchCmd creates the 'search' command for full-text history search.
func NewSearchCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the recorded history",
		Long: `Full-text search over command texts and tags. Results are ranked by
keyword relevance blended with recency, so fresh matches surface first.`,
		Example: `  memory-mcp search docker
  memory-mcp search "compose up" --limit 5
  memory-mcp search pytest --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "), limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results (default from config)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runSearch builds the in-memory index and runs one query against it.
func runSearch(query string, limit int, jsonOutput bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if limit == 0 {
		limit = cfg.Settings.SearchLimit
	}

	logger := getLogger()

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	index := buildIndex(store, logger)
	if index == nil {
		return fmt.Errorf("search index is not available")
	}
	defer index.Close()

	results, err := index.SearchRecent(query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Printf("No commands match %q.\n", query)
		return nil
	}

	fmt.Printf("Results for %q (%d):\n\n", query, len(results))
	for i, result := range results {
		fmt.Printf("  %d. %s  (score %.2f)\n", i+1, result.Text, result.Score)
		detail := result.Timestamp.Format("2006-01-02 15:04")
		if len(result.Tags) > 0 {
			detail += "  tags: " + strings.Join(result.Tags, ", ")
		}
		fmt.Printf("     %s\n", detail)
	}

	return nil
}
