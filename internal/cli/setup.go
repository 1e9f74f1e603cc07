package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/config"
	"github.com/smallyunet/memory-mcp-server/internal/config/sources"
)

// NewSetupCmd creates the 'setup' command for registering the server with
// AI CLI runtimes.
//
// The setup flow:
// 1. Detects installed AI CLI runtimes by their config files
// 2. Writes our server entry into each registry, preserving other entries
// 3. Records the registrations in ~/.memory-mcp.json
func NewSetupCmd() *cobra.Command {
	var agentName string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register memory-mcp with AI CLI runtimes",
		Long: `Detect installed AI CLI runtimes and register this server in their
MCP registries, so agents can launch 'memory-mcp serve' on demand.

Supported runtimes:
  • Claude Code (~/.claude.json)
  • OpenCode (~/.opencode.json, opencode.json, ~/.config/opencode/opencode.json)

Only runtimes whose config file already exists are touched. Use --agent
to register with a specific runtime even when it is not detected.`,
		Example: `  # Register with every detected runtime
  memory-mcp setup

  # Register with one runtime explicitly
  memory-mcp setup --agent claude-code`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(agentName)
		},
	}

	cmd.Flags().StringVar(&agentName, "agent", "", "Register with a specific runtime (claude-code, opencode)")

	return cmd
}

// runSetup registers the server binary with AI CLI runtimes.
func runSetup(agentName string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve binary path: %w", err)
	}

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
		fmt.Println("🔍 Scanning for AI CLI runtimes...")
		fmt.Println()
		for _, rt := range sources.GetAllRuntimes() {
			path, err := rt.ConfigPath()
			if err != nil {
				continue
			}
			if _, err := os.Stat(path); err == nil {
				targets = append(targets, rt)
			}
		}
		if len(targets) == 0 {
			fmt.Println("  No AI CLI runtimes detected.")
			fmt.Println()
			fmt.Println("Register one explicitly with:")
			fmt.Println("  memory-mcp setup --agent claude-code")
			return nil
		}
	}

	registered := 0
	for _, rt := range targets {
		path, err := rt.Register(execPath, []string{"serve"})
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", rt.Name(), err)
			continue
		}
		cfg.Agents[rt.Name()] = &config.AgentConfig{
			ConfigPath:   path,
			RegisteredAt: time.Now().UTC().Format(time.RFC3339),
		}
		fmt.Printf("  ✓ %s (%s)\n", rt.Name(), path)
		registered++
	}

	if registered == 0 {
		return fmt.Errorf("no runtimes were registered")
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Registered with %d runtime(s)\n", registered)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  Restart your AI client, then ask it to remember a command:")
	fmt.Println("    \"remember that I deploy with make release\"")

	return nil
}
