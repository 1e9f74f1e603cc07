package storage

import (
	"fmt"

	"go.uber.org/zap"
)

// migration is a single versioned schema change.
type migration struct {
	version int
	name    string
	up      func() error
}

// runMigrations applies pending schema migrations in order.
func (s *SQLiteStore) runMigrations() error {
	if err := s.createMigrationsTable(); err != nil {
		return err
	}

	version, err := s.currentMigrationVersion()
	if err != nil {
		return err
	}

	migrations := []migration{
		{version: 1, name: "commands_table", up: s.migration001CommandsTable},
	}

	for _, m := range migrations {
		if version >= m.version {
			continue
		}
		s.logger.Info("running migration",
			zap.Int("version", m.version),
			zap.String("name", m.name))
		if err := m.up(); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if err := s.setMigrationVersion(m.version, m.name); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteStore) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`)
	return err
}

func (s *SQLiteStore) currentMigrationVersion() (int, error) {
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

func (s *SQLiteStore) setMigrationVersion(version int, name string) error {
	_, err := s.db.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", version, name)
	return err
}

// migration001CommandsTable creates the commands table and its indexes.
func (s *SQLiteStore) migration001CommandsTable() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS commands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			command_text TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '',
			timestamp DATETIME NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("failed to create commands table: %w", err)
	}

	if _, err := s.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_commands_timestamp
		ON commands(timestamp DESC)
	`); err != nil {
		return fmt.Errorf("failed to create commands timestamp index: %w", err)
	}

	return nil
}
