package cli

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

func TestNewExportCmd(t *testing.T) {
	cmd := NewExportCmd()

	if cmd == nil {
		t.Fatal("NewExportCmd() returned nil")
	}
	if cmd.Flags().Lookup("format") == nil {
		t.Error("flag 'format' not registered")
	}
	if cmd.Flags().Lookup("output") == nil {
		t.Error("flag 'output' not registered")
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runExport("yaml", ""); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestExportJSONL(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := runRecord("docker compose up -d", []string{"docker"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := runRecord("go test ./...", nil); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	output := filepath.Join(home, "export.jsonl")
	if err := runExport("jsonl", output); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	file, err := os.Open(output)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer file.Close()

	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record storage.Command
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("line %d is not a valid command: %v", lines+1, err)
		}
		if record.Text == "" {
			t.Errorf("line %d has empty command_text", lines+1)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}

	if _, err := os.Stat(output + ".lock"); !os.IsNotExist(err) {
		t.Error("expected the lock file to be removed")
	}
}

func TestExportJSONSnapshot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := runRecord("git push origin main", []string{"git"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	output := filepath.Join(home, "export.json")
	if err := runExport("json", output); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}

	var snapshot exportSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("export is not a valid snapshot: %v", err)
	}
	if snapshot.SnapshotID == "" {
		t.Error("expected a snapshot ID")
	}
	if snapshot.ExportedAt.IsZero() {
		t.Error("expected an export timestamp")
	}
	if snapshot.TotalCommands != 1 || len(snapshot.Commands) != 1 {
		t.Errorf("expected 1 command, got total=%d len=%d",
			snapshot.TotalCommands, len(snapshot.Commands))
	}
}
