package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/config"
	"github.com/smallyunet/memory-mcp-server/internal/config/sources"
)

// NewRemoveCmd creates the 'remove' command for unregistering the server.
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove [runtime]",
		Aliases: []string{"rm"},
		Short:   "Unregister memory-mcp from AI CLI runtimes",
		Long: `Remove this server's entry from AI CLI runtime registries. Without
an argument, every supported runtime is cleaned up. The recorded history
is never touched.`,
		Example: `  memory-mcp remove
  memory-mcp remove claude-code
  memory-mcp rm opencode`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runRemove(name)
		},
	}

	return cmd
}

// runRemove removes our server entry from runtime registries.
func runRemove(agentName string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var targets []sources.Runtime
	if agentName != "" {
		rt, ok := sources.GetRuntime(agentName)
		if !ok {
			return fmt.Errorf("unknown runtime %q (supported: claude-code, opencode)", agentName)
		}
		targets = []sources.Runtime{rt}
	} else {
		targets = sources.GetAllRuntimes()
	}

	removed := 0
	for _, rt := range targets {
		path, wasRegistered, err := rt.Unregister()
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", rt.Name(), err)
			continue
		}
		if wasRegistered {
			fmt.Printf("  ✓ %s: removed from %s\n", rt.Name(), path)
			removed++
		} else {
			fmt.Printf("  • %s: not registered\n", rt.Name())
		}
		delete(cfg.Agents, rt.Name())
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if removed == 0 {
		fmt.Println("\nNothing to remove.")
	}
	return nil
}
