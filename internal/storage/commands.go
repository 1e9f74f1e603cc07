package storage

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CreateCommand inserts a command with the current UTC time. Empty tags are
// dropped and at most MaxTags are kept; the text is stored verbatim.
func (s *SQLiteStore) CreateCommand(text string, tags []string) (Command, error) {
	if err := s.ready(); err != nil {
		return Command{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clean := cleanTags(tags)
	now := time.Now().UTC().Truncate(time.Second)

	res, err := s.db.Exec(
		"INSERT INTO commands (command_text, tags, timestamp) VALUES (?, ?, ?)",
		text,
		joinTags(clean),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return Command{}, fmt.Errorf("failed to insert command: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Command{}, fmt.Errorf("failed to read insert id: %w", err)
	}

	return Command{
		ID:        id,
		Text:      text,
		Tags:      clean,
		Timestamp: now,
	}, nil
}

// ListCommands returns commands newest first. A limit of 0 or less returns
// the full history.
func (s *SQLiteStore) ListCommands(limit int) ([]Command, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT id, command_text, tags, timestamp
		FROM commands
		ORDER BY timestamp DESC, id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commands: %w", err)
	}
	defer rows.Close()

	commands := make([]Command, 0)
	for rows.Next() {
		var cmd Command
		var tagsCol, timestampStr string

		if err := rows.Scan(&cmd.ID, &cmd.Text, &tagsCol, &timestampStr); err != nil {
			return nil, fmt.Errorf("failed to scan command row: %w", err)
		}

		cmd.Tags = splitTags(tagsCol)
		cmd.Timestamp, err = time.Parse(time.RFC3339, timestampStr)
		if err != nil {
			s.logger.Warn("skipping command with unparseable timestamp",
				zap.Int64("id", cmd.ID),
				zap.Error(err))
			continue
		}

		commands = append(commands, cmd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate command rows: %w", err)
	}

	return commands, nil
}

// CountCommands returns the total number of stored commands.
func (s *SQLiteStore) CountCommands() (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM commands").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count commands: %w", err)
	}
	return count, nil
}
