package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/config"
)

// NewListCmd creates the 'list' command for listing recorded commands.
func NewListCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded commands, newest first",
		Example: `  memory-mcp list
  memory-mcp ls --limit 20
  memory-mcp list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(limit, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum commands to show (0 = all)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runList displays the recorded history.
func runList(limit int, jsonOutput bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openStore(cfg, getLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListCommands(limit)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No commands recorded.")
		fmt.Println("Run 'memory-mcp record \"<command>\"' to start building the memory.")
		return nil
	}

	fmt.Printf("Recorded commands (%d):\n\n", len(records))
	for _, record := range records {
		fmt.Printf("  [%s] %s\n", record.Timestamp.Format("2006-01-02 15:04"), record.Text)
		if len(record.Tags) > 0 {
			fmt.Printf("      tags: %s\n", strings.Join(record.Tags, ", "))
		}
	}

	return nil
}
