package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

// Save writes the configuration to the default path.
// The previous file, if any, is kept as a .bak backup and the new content
// is written atomically via a temp file rename.
func (c *Config) Save() error {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := c.validate(); err != nil {
		return &InvalidConfigError{
			Path:    path,
			Message: err.Error(),
			Hint:    "Fix the listed field before saving",
		}
	}

	if err := checkWritePermission(path); err != nil {
		return err
	}

	backupConfig(path)

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return atomicWrite(path, data)
}

// checkWritePermission verifies we can write to the config location.
func checkWritePermission(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.Mode().Perm()&0200 == 0 {
			return &PermissionError{
				Path:    path,
				Op:      "write",
				Fix:     fmt.Sprintf("chmod 644 %s", path),
				Details: fmt.Sprintf("current permissions: %04o", info.Mode().Perm()),
			}
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	return checkDirectoryWritable(filepath.Dir(path))
}

// checkDirectoryWritable probes a directory with a throwaway file.
func checkDirectoryWritable(dir string) error {
	probe := filepath.Join(dir, fmt.Sprintf(".write-test-%s", randomString(8)))
	f, err := os.Create(probe)
	if err != nil {
		if os.IsPermission(err) {
			return &PermissionError{
				Path: dir,
				Op:   "write",
				Fix:  fmt.Sprintf("chmod u+w %s", dir),
			}
		}
		return fmt.Errorf("failed to check directory writability: %w", err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}

// backupConfig copies the current file to path.bak. Backup failures are
// reported on stderr but never block the save.
func backupConfig(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	backupPath := path + ".bak"
	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to create backup %s: %v\n", backupPath, err)
	}
}

// atomicWrite writes data to a temp file in the target directory and
// renames it over the destination.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
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
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

const randomChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomString returns n random characters for temp file names.
func randomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randomChars[rand.Intn(len(randomChars))]
	}
	return string(b)
}
