package sources

import (
	"fmt"
	"os"
	"path/filepath"
)

// ClaudeCodeRuntime registers the server with Claude Code.
//
// Registry location: ~/.claude.json
//
// Format:
//
//	{
//	  "mcpServers": {
//	    "memory": {
//	      "command": "/usr/local/bin/memory-mcp",
//	      "args": ["serve"]
//	    }
//	  }
//	}
type ClaudeCodeRuntime struct {
	// Path overrides the default registry location.
	Path string
}

const claudeCodeRegistryKey = "mcpServers"

// NewClaudeCodeRuntime creates a new Claude Code runtime.
func NewClaudeCodeRuntime() *ClaudeCodeRuntime {
	return &ClaudeCodeRuntime{}
}

// Name returns the runtime identifier.
func (r *ClaudeCodeRuntime) Name() string {
	return "claude-code"
}

// ConfigPath returns the registry file Register would write to.
func (r *ClaudeCodeRuntime) ConfigPath() (string, error) {
	if r.Path != "" {
		return r.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".claude.json"), nil
}

// Register writes our server entry, preserving the rest of the file.
func (r *ClaudeCodeRuntime) Register(command string, args []string) (string, error) {
	path, err := r.ConfigPath()
	if err != nil {
		return "", err
	}
	entry := map[string]interface{}{
		"command": command,
		"args":    args,
	}
	if err := setEntry(path, claudeCodeRegistryKey, entry); err != nil {
		return "", err
	}
	return path, nil
}

// Unregister removes our server entry.
func (r *ClaudeCodeRuntime) Unregister() (string, bool, error) {
	path, err := r.ConfigPath()
	if err != nil {
		return "", false, err
	}
	removed, err := removeEntry(path, claudeCodeRegistryKey)
	if err != nil {
		return "", false, err
	}
	return path, removed, nil
}

// IsRegistered reports whether our server entry exists.
func (r *ClaudeCodeRuntime) IsRegistered() (bool, error) {
	path, err := r.ConfigPath()
	if err != nil {
		return false, err
	}
	return hasEntry(path, claudeCodeRegistryKey)
}
