/*
Package sources registers the memory-mcp server with AI CLI runtimes.

Each runtime keeps its MCP server registry in a JSON config file. The
writers here modify only our own entry and preserve everything else in
the file.

Supported runtimes:
  - Claude Code: ~/.claude.json
  - OpenCode: ~/.opencode.json, opencode.json, ~/.config/opencode/opencode.json
*/
package sources

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ServerKey is the entry name our server is registered under.
const ServerKey = "memory"

// Runtime represents an AI CLI tool that can launch MCP servers.
type Runtime interface {
	// Name returns the runtime identifier (e.g., "claude-code").
	Name() string

	// ConfigPath returns the registry file Register would write to.
	ConfigPath() (string, error)

	// Register writes our server entry and returns the path written.
	Register(command string, args []string) (string, error)

	// Unregister removes our server entry. The bool reports whether
	// an entry was present.
	Unregister() (string, bool, error)

	// IsRegistered reports whether our server entry exists.
	IsRegistered() (bool, error)
}

// GetAllRuntimes returns all supported runtimes.
func GetAllRuntimes() []Runtime {
	return []Runtime{
		NewClaudeCodeRuntime(),
		NewOpenCodeRuntime(),
	}
}

// GetRuntime looks up a runtime by name.
func GetRuntime(name string) (Runtime, bool) {
	for _, rt := range GetAllRuntimes() {
		if rt.Name() == name {
			return rt, true
		}
	}
	return nil, false
}

// readJSONObject loads a JSON file into a generic map. A missing file
// yields an empty map so Register can create it from scratch.
func readJSONObject(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}

	var root map[string]interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if root == nil {
		root = map[string]interface{}{}
	}
	return root, nil
}

// writeJSONObject writes root with indentation via a temp file rename.
func writeJSONObject(path string, root map[string]interface{}) error {
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// setEntry writes entry under rootKey/ServerKey in the file at path.
func setEntry(path, rootKey string, entry map[string]interface{}) error {
	root, err := readJSONObject(path)
	if err != nil {
		return err
	}

	servers, _ := root[rootKey].(map[string]interface{})
	if servers == nil {
		servers = map[string]interface{}{}
	}
	servers[ServerKey] = entry
	root[rootKey] = servers

	return writeJSONObject(path, root)
}

// removeEntry deletes rootKey/ServerKey from the file at path.
// Reports whether an entry was present. Nothing is written otherwise.
func removeEntry(path, rootKey string) (bool, error) {
	root, err := readJSONObject(path)
	if err != nil {
		return false, err
	}

	servers, _ := root[rootKey].(map[string]interface{})
	if servers == nil {
		return false, nil
	}
	if _, ok := servers[ServerKey]; !ok {
		return false, nil
	}
	delete(servers, ServerKey)
	root[rootKey] = servers

	if err := writeJSONObject(path, root); err != nil {
		return false, err
	}
	return true, nil
}

// hasEntry reports whether rootKey/ServerKey exists in the file at path.
func hasEntry(path, rootKey string) (bool, error) {
	root, err := readJSONObject(path)
	if err != nil {
		return false, err
	}
	servers, _ := root[rootKey].(map[string]interface{})
	if servers == nil {
		return false, nil
	}
	_, ok := servers[ServerKey]
	return ok, nil
}
