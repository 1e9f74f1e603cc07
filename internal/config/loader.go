package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Load reads the configuration from the default path. A missing file is
// not an error: defaults are returned so the server can run before setup.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		var notFound *ConfigNotFoundError
		if errors.As(err, &notFound) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads the configuration from a specific path.
// Returns typed errors for common failure modes so callers can print
// actionable messages.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigNotFoundError{
				Path: path,
				Hint: "Run 'memory-mcp setup' to create the configuration",
			}
		}
		if os.IsPermission(err) {
			return nil, &PermissionError{
				Path:    path,
				Op:      "read",
				Fix:     getReadPermissionFix(path),
				Details: getPermissionDetails(path),
			}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: err.Error(),
			Hint:    "Restore from the .bak file if available, or run 'memory-mcp setup' to recreate it",
		}
	}

	cfg.Settings = mergeSettings(cfg.Settings)
	if cfg.Agents == nil {
		cfg.Agents = make(map[string]*AgentConfig)
	}

	if err := cfg.validate(); err != nil {
		return nil, &InvalidConfigError{
			Path:    path,
			Message: err.Error(),
			Hint:    "Fix the listed field or run 'memory-mcp setup' to recreate the file",
		}
	}

	return &cfg, nil
}

// getReadPermissionFix returns a suggested fix for read permission errors.
func getReadPermissionFix(path string) string {
	return fmt.Sprintf("chmod 644 %s", path)
}

// getPermissionDetails returns current permission details for error messages.
func getPermissionDetails(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("current permissions: %04o", info.Mode().Perm())
}
