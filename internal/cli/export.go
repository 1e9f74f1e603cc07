package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/smallyunet/memory-mcp-server/internal/config"
	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

// exportSnapshot is the envelope for the json export format.
type exportSnapshot struct {
	SnapshotID    string            `json:"snapshot_id"`
	ExportedAt    time.Time         `json:"exported_at"`
	TotalCommands int               `json:"total_commands"`
	Commands      []storage.Command `json:"commands"`
}

// NewExportCmd creates the 'export' command for dumping the history.
func NewExportCmd() *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the recorded history to a file",
		Long: `Write the full command history to a file for offline grep/jq work
or for backup.

Default output: ~/.memory-mcp-export.jsonl
Default format: JSONL (one command per line)

The json format wraps the commands in a snapshot envelope with a unique
snapshot ID and export timestamp.`,
		Example: `  # Export to the default location
  memory-mcp export

  # Export as a JSON snapshot
  memory-mcp export --format json

  # Custom output path
  memory-mcp export --output ./history.jsonl

Grep usage examples:
  # Find docker commands
  grep docker ~/.memory-mcp-export.jsonl

  # Extract all command texts
  cat ~/.memory-mcp-export.jsonl | jq -r '.command_text'

  # Count commands per tag
  cat ~/.memory-mcp-export.jsonl | jq -r '.tags[]' | sort | uniq -c`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(format, output)
		},
	}

	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format: json or jsonl")
	cmd.Flags().StringVar(&output, "output", "", "Output path (default: ~/.memory-mcp-export.jsonl)")

	return cmd
}

// runExport executes the export command.
func runExport(format, output string) error {
	if format != "json" && format != "jsonl" {
		return fmt.Errorf("unknown format %q (expected json or jsonl)", format)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if output == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		ext := ".jsonl"
		if format == "json" {
			ext = ".json"
		}
		output = filepath.Join(home, ".memory-mcp-export"+ext)
	}

	// Acquire file lock to prevent concurrent exports
	lockFile, err := acquireFileLock(output)
	if err != nil {
		return fmt.Errorf("failed to acquire file lock: %w", err)
	}
	defer releaseFileLock(lockFile)

	store, err := openStore(cfg, getLogger())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.ListCommands(0)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	return writeExport(records, output, format)
}

// writeExport writes the history to a file.
func writeExport(records []storage.Command, path, format string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)

	if format == "json" {
		encoder.SetIndent("", "  ")
		snapshot := exportSnapshot{
			SnapshotID:    uuid.New().String(),
			ExportedAt:    time.Now().UTC(),
			TotalCommands: len(records),
			Commands:      records,
		}
		if err := encoder.Encode(snapshot); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
	} else {
		// JSONL format (one per line)
		for _, record := range records {
			if err := encoder.Encode(record); err != nil {
				return fmt.Errorf("failed to encode command: %w", err)
			}
		}
	}

	fmt.Printf("✓ Exported %d commands to %s\n", len(records), path)
	return nil
}

// acquireFileLock acquires an exclusive lock next to the export file.
func acquireFileLock(path string) (*os.File, error) {
	lockPath := path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	// Exclusive, non-blocking
	err = unix.Flock(int(lockFile.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		lockFile.Close()
		return nil, fmt.Errorf("failed to acquire lock (another export in progress?): %w", err)
	}

	return lockFile, nil
}

// releaseFileLock releases the file lock and removes the lock file.
func releaseFileLock(lockFile *os.File) error {
	if lockFile == nil {
		return nil
	}

	lockPath := lockFile.Name()

	unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)
	lockFile.Close()

	return os.Remove(lockPath)
}
