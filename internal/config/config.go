/*
Package config handles loading and saving memory-mcp configuration.

Configuration is stored in ~/.memory-mcp.json:

  {
    "settings": {
      "databasePath": "/home/user/.memory-mcp/memory.db",
      "httpAddr": "127.0.0.1:8000",
      "topTasks": 3,
      "contextLimit": 50,
      "recentLimit": 10,
      "searchLimit": 10,
      "disableUpdateCheck": false
    },
    "agents": {
      "claude-code": {
        "configPath": "/home/user/.claude.json",
        "registeredAt": "2025-06-01T12:00:00Z"
      }
    }
  }

The agents section tracks which AI CLI runtimes this server has been
registered into, maintained by 'memory-mcp setup' and 'memory-mcp remove'.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when a setting is absent from the config file.
const (
	// DefaultHTTPAddr is where the REST API listens.
	DefaultHTTPAddr = "127.0.0.1:8000"

	// DefaultTopTasks is how many task names a holistic summary keeps.
	DefaultTopTasks = 3

	// DefaultContextLimit bounds the records a contextual query considers.
	DefaultContextLimit = 50

	// DefaultRecentLimit bounds the records in a memory-context block.
	DefaultRecentLimit = 10

	// DefaultSearchLimit caps full-text search results.
	DefaultSearchLimit = 10
)

// Config represents the root configuration structure.
type Config struct {
	// Settings contains global configuration options.
	Settings *Settings `json:"settings,omitempty"`

	// Agents maps runtime names to the configs we registered into.
	Agents map[string]*AgentConfig `json:"agents,omitempty"`
}

// Settings contains global configuration options.
type Settings struct {
	// DatabasePath is where the SQLite history lives.
	DatabasePath string `json:"databasePath,omitempty"`

	// HTTPAddr is the listen address for the REST API.
	HTTPAddr string `json:"httpAddr,omitempty"`

	// TopTasks is how many task names a holistic summary keeps.
	TopTasks int `json:"topTasks,omitempty"`

	// ContextLimit bounds the records a contextual query considers.
	ContextLimit int `json:"contextLimit,omitempty"`

	// RecentLimit bounds the records in a memory-context block.
	RecentLimit int `json:"recentLimit,omitempty"`

	// SearchLimit caps full-text search results.
	SearchLimit int `json:"searchLimit,omitempty"`

	// DisableUpdateCheck turns off the GitHub release check.
	DisableUpdateCheck bool `json:"disableUpdateCheck,omitempty"`
}

// AgentConfig records one runtime registration.
type AgentConfig struct {
	// ConfigPath is the runtime config file our server entry was written to.
	ConfigPath string `json:"configPath"`

	// RegisteredAt is when setup last wrote the entry (RFC3339).
	RegisteredAt string `json:"registeredAt,omitempty"`
}

// NewConfig creates a new configuration with default settings.
func NewConfig() *Config {
	return &Config{
		Settings: defaultSettings(),
		Agents:   make(map[string]*AgentConfig),
	}
}

// defaultSettings returns a fully populated Settings.
func defaultSettings() *Settings {
	return &Settings{
		DatabasePath: defaultDatabasePath(),
		HTTPAddr:     DefaultHTTPAddr,
		TopTasks:     DefaultTopTasks,
		ContextLimit: DefaultContextLimit,
		RecentLimit:  DefaultRecentLimit,
		SearchLimit:  DefaultSearchLimit,
	}
}

// mergeSettings fills zero-valued fields with defaults.
func mergeSettings(s *Settings) *Settings {
	merged := defaultSettings()
	if s == nil {
		return merged
	}

	if s.DatabasePath != "" {
		merged.DatabasePath = s.DatabasePath
	}
	if s.HTTPAddr != "" {
		merged.HTTPAddr = s.HTTPAddr
	}
	if s.TopTasks > 0 {
		merged.TopTasks = s.TopTasks
	}
	if s.ContextLimit > 0 {
		merged.ContextLimit = s.ContextLimit
	}
	if s.RecentLimit > 0 {
		merged.RecentLimit = s.RecentLimit
	}
	if s.SearchLimit > 0 {
		merged.SearchLimit = s.SearchLimit
	}
	merged.DisableUpdateCheck = s.DisableUpdateCheck

	return merged
}

// defaultDatabasePath returns ~/.memory-mcp/memory.db, or a relative
// fallback when the home directory cannot be resolved.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".memory-mcp", "memory.db")
	}
	return filepath.Join(home, ".memory-mcp", "memory.db")
}

// GetDefaultConfigPath returns the path to ~/.memory-mcp.json.
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".memory-mcp.json"), nil
}
