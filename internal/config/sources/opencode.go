package sources

import (
	"fmt"
	"os"
	"path/filepath"
)

// OpenCodeRuntime registers the server with OpenCode.
//
// Registry locations, in order of precedence:
//   - ~/.opencode.json (global user config)
//   - opencode.json (project-level config)
//   - ~/.config/opencode/opencode.json (XDG config)
//
// Register writes to the first location that already exists, falling
// back to the global user config.
//
// Format:
//
//	{
//	  "mcp": {
//	    "memory": {
//	      "type": "local",
//	      "command": "/usr/local/bin/memory-mcp",
//	      "args": ["serve"],
//	      "enabled": true
//	    }
//	  }
//	}
type OpenCodeRuntime struct {
	// Path overrides the default registry location.
	Path string
}

const openCodeRegistryKey = "mcp"

// NewOpenCodeRuntime creates a new OpenCode runtime.
func NewOpenCodeRuntime() *OpenCodeRuntime {
	return &OpenCodeRuntime{}
}

// Name returns the runtime identifier.
func (r *OpenCodeRuntime) Name() string {
	return "opencode"
}

// ConfigPath returns the registry file Register would write to.
func (r *OpenCodeRuntime) ConfigPath() (string, error) {
	if r.Path != "" {
		return r.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	paths := []string{
		filepath.Join(home, ".opencode.json"),
		"opencode.json",
		filepath.Join(home, ".config", "opencode", "opencode.json"),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return paths[0], nil
}

// Register writes our server entry, preserving the rest of the file.
func (r *OpenCodeRuntime) Register(command string, args []string) (string, error) {
	path, err := r.ConfigPath()
	if err != nil {
		return "", err
	}
	entry := map[string]interface{}{
		"type":    "local",
		"command": command,
		"args":    args,
		"enabled": true,
	}
	if err := setEntry(path, openCodeRegistryKey, entry); err != nil {
		return "", err
	}
	return path, nil
}

// Unregister removes our server entry.
func (r *OpenCodeRuntime) Unregister() (string, bool, error) {
	path, err := r.ConfigPath()
	if err != nil {
		return "", false, err
	}
	removed, err := removeEntry(path, openCodeRegistryKey)
	if err != nil {
		return "", false, err
	}
	return path, removed, nil
}

// IsRegistered reports whether our server entry exists.
func (r *OpenCodeRuntime) IsRegistered() (bool, error) {
	path, err := r.ConfigPath()
	if err != nil {
		return false, err
	}
	return hasEntry(path, openCodeRegistryKey)
}
