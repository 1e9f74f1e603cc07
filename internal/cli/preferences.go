package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/config"
	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

// NewPreferencesCmd creates the 'preferences' command for the holistic
// preference summary.
func NewPreferencesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "preferences",
		Aliases: []string{"prefs"},
		Short:   "Show inferred preferences",
		Long: `Infer holistic preferences from the whole recorded history:
preferred language with a confidence share, the most common tasks, coding
style leanings, and the frameworks and tools in use.`,
		Example: `  memory-mcp preferences
  memory-mcp prefs --json
  memory-mcp preferences contextual --context "debug failing go tests"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreferences(jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

// runPreferences displays the holistic summary.
func runPreferences(jsonOutput bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
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

	summary := newEngine(cfg).Holistic(records)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	if summary.PreferredLanguage != nil {
		fmt.Printf("Preferred language: %s (confidence %.2f)\n",
			*summary.PreferredLanguage, summary.PreferredLanguageConfidence)
	} else {
		fmt.Println("Preferred language: (none observed)")
	}
	fmt.Printf("Common tasks:       %s\n", joinOrDash(summary.CommonTasks))
	if summary.Style != "" {
		fmt.Printf("Style:              %s\n", summary.Style)
	} else {
		fmt.Printf("Style:              -\n")
	}
	fmt.Printf("Frameworks:         %s\n", joinOrDash(summary.Frameworks))
	fmt.Printf("Tools:              %s\n", joinOrDash(summary.Tools))

	return nil
}

// NewContextualPreferencesCmd creates the 'preferences contextual'
// subcommand.
func NewContextualPreferencesCmd() *cobra.Command {
	var context string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "contextual",
		Short: "Show preferences scoped to a task context",
		Long: `Infer preferences relevant to a described task. The context is
matched against task groups (documentation, testing, refactoring,
optimization, deployment); when a group matches, the summary is computed
from the recent commands related to it.`,
		Example: `  memory-mcp preferences contextual --context "write api docs"
  memory-mcp preferences contextual --context "deploy to prod" --limit 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContextualPreferences(context, limit, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&context, "context", "c", "", "Task description (required)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Recent commands to consider (default from config)")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.MarkFlagRequired("context")

	return cmd
}

// runContextualPreferences displays the contextual summary.
func runContextualPreferences(context string, limit int, jsonOutput bool) error {
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

	engine := newEngine(cfg)

	// Records are loaded only for a positive limit; the engine rejects
	// the rest before touching them.
	var records []storage.Command
	if limit > 0 {
		records, err = store.ListCommands(limit)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
	}

	summary, err := engine.Contextual(records, context, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	if len(summary.MatchedGroups) > 0 {
		fmt.Printf("Matched task groups: %s\n", strings.Join(summary.MatchedGroups, ", "))
	} else {
		fmt.Println("Matched task groups: (none)")
	}
	if summary.Note != "" {
		fmt.Printf("Note: %s\n", summary.Note)
	}
	if summary.PreferredLanguage != nil {
		fmt.Printf("Preferred language:  %s\n", *summary.PreferredLanguage)
	} else {
		fmt.Println("Preferred language:  (none observed)")
	}
	fmt.Printf("Tasks:               %s\n", joinOrDash(summary.TasksSubset))
	fmt.Printf("Style:               %s\n", joinOrDash(summary.StyleSubset))
	fmt.Printf("Frameworks:          %s\n", joinOrDash(summary.FrameworksSubset))
	fmt.Printf("Tools:               %s\n", joinOrDash(summary.ToolsSubset))

	return nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
