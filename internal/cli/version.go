package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/version"
)

// NewVersionCmd creates the 'version' command.
func NewVersionCmd() *cobra.Command {
	var checkUpdate bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the current version, commit hash, and build date.`,
		Example: `  memory-mcp version
  memory-mcp version --check-update`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(checkUpdate)
		},
	}

	cmd.Flags().BoolVar(&checkUpdate, "check-update", false, "Check GitHub for a newer release")

	return cmd
}

func runVersion(checkUpdate bool) error {
	v, c, d := version.GetVersionComponents()
	fmt.Printf("Version:  %s\n", v)
	fmt.Printf("Commit:   %s\n", c)
	fmt.Printf("Built:    %s\n", d)

	if !checkUpdate {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	latest, err := version.CheckUpdate(ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if latest != "" {
		fmt.Printf("\nUpdate available: %s (current: %s)\n", latest, v)
	} else {
		fmt.Println("\nYou are up to date.")
	}
	return nil
}
