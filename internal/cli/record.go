package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/config"
)

// NewRecordCmd creates the 'record' command for saving a command.
func NewRecordCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "record <command>",
		Short: "Record a command in the memory",
		Long: `Save a command to the history. Tags are optional labels that feed
preference inference alongside the command text (at most 3 are kept).`,
		Example: `  memory-mcp record "docker compose up -d"
  memory-mcp record "pytest -x tests/" --tag testing --tag python`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(strings.Join(args, " "), tags)
		},
	}

	cmd.Flags().StringArrayVarP(&tags, "tag", "t", nil, "Tag for the command (repeatable)")

	return cmd
}

// runRecord saves one command to the history.
func runRecord(text string, tags []string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("command text cannot be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := openStore(cfg, getLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := store.CreateCommand(text, tags)
	if err != nil {
		return fmt.Errorf("failed to record command: %w", err)
	}

	if len(record.Tags) > 0 {
		fmt.Printf("✓ Recorded: %s (tags: %s)\n", record.Text, strings.Join(record.Tags, ", "))
	} else {
		fmt.Printf("✓ Recorded: %s\n", record.Text)
	}
	return nil
}
