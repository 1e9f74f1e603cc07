package config

import "fmt"

// ConfigNotFoundError indicates the config file does not exist.
type ConfigNotFoundError struct {
	Path string
	Hint string
}

func (e *ConfigNotFoundError) Error() string {
	msg := fmt.Sprintf("config file not found: %s", e.Path)
	if e.Hint != "" {
		msg += fmt.Sprintf("\n💡 Hint: %s", e.Hint)
	}
	return msg
}

// PermissionError indicates a file permission problem.
type PermissionError struct {
	Path    string
	Op      string // "read" or "write"
	Fix     string // suggested fix command
	Details string // additional details, e.g. current permissions
}

func (e *PermissionError) Error() string {
	msg := fmt.Sprintf("cannot %s config file: %s", e.Op, e.Path)
	if e.Details != "" {
		msg += fmt.Sprintf(" (%s)", e.Details)
	}
	if e.Fix != "" {
		msg += fmt.Sprintf("\n💡 Fix: %s", e.Fix)
	}
	return msg
}

// InvalidConfigError indicates the config file contains invalid content.
type InvalidConfigError struct {
	Path    string
	Message string
	Hint    string
}

func (e *InvalidConfigError) Error() string {
	msg := fmt.Sprintf("invalid config file %s: %s", e.Path, e.Message)
	if e.Hint != "" {
		msg += fmt.Sprintf("\n💡 Hint: %s", e.Hint)
	}
	return msg
}
