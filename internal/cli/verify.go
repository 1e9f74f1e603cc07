package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallyunet/memory-mcp-server/internal/config"
	"github.com/smallyunet/memory-mcp-server/internal/config/sources"
)

// NewVerifyCmd creates the 'verify' command for health checks.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify configuration, database, and registrations",
		Long: `Check that the configuration loads, the SQLite history opens, the
search index builds, and runtime registrations match the config.`,
		Example: `  memory-mcp verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify()
		},
	}

	return cmd
}

// runVerify validates the installation.
func runVerify() error {
	configPath, err := config.GetDefaultConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		var notFound *config.ConfigNotFoundError
		if errors.As(err, &notFound) {
			fmt.Printf("• Config file: not found, defaults in use (%s)\n", configPath)
			cfg = config.NewConfig()
		} else {
			return fmt.Errorf("configuration error: %w", err)
		}
	} else {
		fmt.Printf("✓ Config file: %s\n", configPath)
	}

	logger := getLogger()

	store, err := openStore(cfg, logger)
	if err != nil {
		fmt.Printf("✗ Database: %v\n", err)
		return err
	}
	defer store.Close()

	total, err := store.CountCommands()
	if err != nil {
		fmt.Printf("✗ Database: %v\n", err)
		return err
	}
	fmt.Printf("✓ Database: %s (%d commands)\n", cfg.Settings.DatabasePath, total)

	index := buildIndex(store, logger)
	if index == nil {
		fmt.Println("✗ Search index: failed to build")
	} else {
		defer index.Close()
		docs, err := index.Count()
		if err != nil {
			fmt.Printf("✗ Search index: %v\n", err)
		} else {
			fmt.Printf("✓ Search index: %d documents\n", docs)
		}
	}

	for _, rt := range sources.GetAllRuntimes() {
		registered, err := rt.IsRegistered()
		if err != nil {
			fmt.Printf("✗ %s: %v\n", rt.Name(), err)
			continue
		}
		_, tracked := cfg.Agents[rt.Name()]
		switch {
		case registered:
			path, _ := rt.ConfigPath()
			fmt.Printf("✓ %s: registered (%s)\n", rt.Name(), path)
		case tracked:
			fmt.Printf("⚠ %s: listed in config but missing from the registry, re-run 'memory-mcp setup'\n", rt.Name())
		default:
			fmt.Printf("• %s: not registered\n", rt.Name())
		}
	}

	return nil
}
