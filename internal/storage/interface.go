/*
Package storage persists the single-user command history.

Commands live in a SQLite database accessed through modernc.org/sqlite
(a pure Go, CGo-free driver). Each row keeps the raw instruction text
untouched, a comma-joined tag list, and a UTC timestamp assigned at insert
time. Rows are immutable after creation; readers always see them newest
first.
*/
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Store defines the persistence operations for the command history.
type Store interface {
	// Init opens the database, applies pragmas, and runs migrations.
	Init() error

	// CreateCommand inserts a command and returns the stored row.
	CreateCommand(text string, tags []string) (Command, error)

	// ListCommands returns commands newest first. A limit of 0 or less
	// returns the full history.
	ListCommands(limit int) ([]Command, error)

	// CountCommands returns the total number of stored commands.
	CountCommands() (int, error)

	// Stats computes usage statistics across the stored history.
	Stats() (Stats, error)

	// Close closes the database connection.
	Close() error
}

// SQLiteStore implements Store on a local SQLite file.
type SQLiteStore struct {
	db       *sql.DB
	dbPath   string
	logger   *zap.Logger
	mu       sync.Mutex
	initOnce sync.Once
}

// New creates a store backed by the database file at dbPath. The file and
// its parent directory are created on Init if missing.
func New(dbPath string, logger *zap.Logger) *SQLiteStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLiteStore{
		dbPath: dbPath,
		logger: logger,
	}
}

// Init opens the database and runs migrations. Safe to call more than once;
// only the first call does work.
func (s *SQLiteStore) Init() error {
	var initErr error
	s.initOnce.Do(func() {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		if err := db.Ping(); err != nil {
			db.Close()
			initErr = fmt.Errorf("failed to ping database: %w", err)
			return
		}

		for _, pragma := range []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA foreign_keys=ON",
		} {
			if _, err := db.Exec(pragma); err != nil {
				db.Close()
				initErr = fmt.Errorf("failed to apply %s: %w", pragma, err)
				return
			}
		}

		s.db = db

		if err := s.runMigrations(); err != nil {
			db.Close()
			s.db = nil
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			return
		}
	})

	if initErr != nil {
		return initErr
	}
	return s.ready()
}

// ready reports whether Init completed successfully.
func (s *SQLiteStore) ready() error {
	if s.db == nil {
		return fmt.Errorf("storage not initialized")
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	return nil
}
