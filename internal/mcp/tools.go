package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/smallyunet/memory-mcp-server/internal/prefs"
	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

// defaultSearchLimit caps search_commands results when no limit is given.
const defaultSearchLimit = 10

// toolDescriptor describes one exposed tool.
type toolDescriptor struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// toolCatalog lists the exposed tools in a stable order. tools/list and the
// help tool are both built from it.
var toolCatalog = []toolDescriptor{
	{
		Name: "record_command",
		Description: `Record a natural-language command the user just gave.

WHEN TO USE: After every instruction the user issues, so future sessions can learn from it.

Tags are optional short labels (at most 3 are kept), e.g. ["python", "refactor"].`,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"command_text": map[string]interface{}{
					"type":        "string",
					"description": "The user's instruction, verbatim",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Short labels such as 'python' or 'refactor' (at most 3 are kept)",
				},
			},
			"required": []string{"command_text"},
		},
	},
	{
		Name: "commands",
		Description: `List stored commands, newest first.

WHEN TO USE: To review raw history. Prefer memory_context for prompt injection and preferences for a digest.`,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum records to return (default: all)",
				},
			},
		},
	},
	{
		Name:        "stats",
		Description: "Usage statistics for the stored history: total count, top tag keywords, and the most active hours (UTC).",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
	{
		Name: "preferences",
		Description: `Infer the user's holistic coding preferences from the whole history.

WHEN TO USE: Before generating code, to match the user's habits.

Returns: preferred language with a confidence share, common tasks, style keywords, frameworks and tools, plus the raw signal counts.`,
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
	{
		Name: "contextual_preferences",
		Description: `Infer preferences narrowed to the current work context.

WHEN TO USE: Before starting a task, with a one-line description of it (e.g. "update the README"). Records matching the context are summarized; when nothing matches, generic top preferences are returned with a note.`,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"context": map[string]interface{}{
					"type":        "string",
					"description": "A short description of the current task",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "How many recent records to consider (default 50)",
				},
			},
			"required": []string{"context"},
		},
	},
	{
		Name: "memory_context",
		Description: `Compact recent-history block for prompt injection.

Returns: the latest command texts plus the full records. The token argument is accepted for compatibility and ignored.`,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"token": map[string]interface{}{
					"type":        "string",
					"description": "Accepted for compatibility; ignored",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "How many recent records to include (default 10)",
				},
			},
		},
	},
	{
		Name: "search_commands",
		Description: `Full-text search over the stored commands.

Ranking blends keyword relevance with recency, so fresher matches among equally relevant ones come first.`,
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Keywords to search for",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum results to return (default 10)",
				},
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        "help",
		Description: "Describe the available memory tools and when to use them.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	},
}

// execRecordCommand validates and stores a command, then keeps the search
// index in sync.
func (s *Server) execRecordCommand(args map[string]interface{}) (string, error) {
	text := stringArg(args, "command_text")
	if strings.TrimSpace(text) == "" {
		return "", &prefs.InvalidArgumentError{Field: "command_text", Reason: "must be a non-empty string"}
	}

	tags, err := tagsArg(args)
	if err != nil {
		return "", err
	}

	cmd, err := s.store.CreateCommand(text, tags)
	if err != nil {
		return "", fmt.Errorf("failed to record command: %w", err)
	}

	if s.index != nil {
		if err := s.index.IndexCommand(cmd); err != nil {
			s.logger.Warn("failed to index recorded command",
				zap.Int64("id", cmd.ID),
				zap.Error(err))
		}
	}

	return marshalResult(map[string]string{"status": "ok"})
}

// execCommands returns stored commands, newest first.
func (s *Server) execCommands(limit int) (string, error) {
	commands, err := s.store.ListCommands(limit)
	if err != nil {
		return "", fmt.Errorf("failed to list commands: %w", err)
	}

	return marshalResult(commands)
}

// execStats returns usage statistics for the stored history.
func (s *Server) execStats() (string, error) {
	stats, err := s.store.Stats()
	if err != nil {
		return "", fmt.Errorf("failed to compute stats: %w", err)
	}

	return marshalResult(stats)
}

// execPreferences summarizes the whole history.
func (s *Server) execPreferences() (string, error) {
	records, err := s.store.ListCommands(0)
	if err != nil {
		return "", fmt.Errorf("failed to list commands: %w", err)
	}

	return marshalResult(s.engine.Holistic(records))
}

// execContextualPreferences summarizes preferences for a work context.
func (s *Server) execContextualPreferences(context string, limit int) (string, error) {
	// Records are loaded only for a positive limit; the engine rejects the
	// rest before touching them.
	var records []storage.Command
	if limit > 0 {
		var err error
		records, err = s.store.ListCommands(limit)
		if err != nil {
			return "", fmt.Errorf("failed to list commands: %w", err)
		}
	}

	result, err := s.engine.Contextual(records, context, limit)
	if err != nil {
		return "", err
	}

	return marshalResult(result)
}

// execMemoryContext builds the recent-history block.
func (s *Server) execMemoryContext(limit int) (string, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}

	records, err := s.store.ListCommands(limit)
	if err != nil {
		return "", fmt.Errorf("failed to list commands: %w", err)
	}

	recent := make([]string, 0, len(records))
	for _, cmd := range records {
		recent = append(recent, cmd.Text)
	}

	return marshalResult(map[string]interface{}{
		"recent_commands": recent,
		"items":           records,
	})
}

// execSearchCommands runs a recency-blended full-text search.
func (s *Server) execSearchCommands(query string, limit int) (string, error) {
	if s.index == nil {
		return "", fmt.Errorf("search index is not available")
	}

	if strings.TrimSpace(query) == "" {
		return "", &prefs.InvalidArgumentError{Field: "query", Reason: "must be a non-empty string"}
	}

	results, err := s.index.SearchRecent(query, limit)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}

	return marshalResult(map[string]interface{}{
		"query":         query,
		"total_results": len(results),
		"results":       results,
	})
}

// execHelp returns the tool catalog.
func (s *Server) execHelp() (string, error) {
	entries := make([]map[string]string, 0, len(toolCatalog))
	for _, tool := range toolCatalog {
		entries = append(entries, map[string]string{
			"name":        tool.Name,
			"description": tool.Description,
		})
	}

	return marshalResult(map[string]interface{}{"tools": entries})
}

// tagsArg extracts the optional tags argument.
func tagsArg(args map[string]interface{}) ([]string, error) {
	raw, present := args["tags"]
	if !present || raw == nil {
		return nil, nil
	}

	list, ok := raw.([]interface{})
	if !ok {
		return nil, &prefs.InvalidArgumentError{Field: "tags", Reason: "must be a list of strings"}
	}

	tags := make([]string, 0, len(list))
	for _, item := range list {
		tag, ok := item.(string)
		if !ok {
			return nil, &prefs.InvalidArgumentError{Field: "tags", Reason: "must be a list of strings"}
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// marshalResult encodes a tool result as compact JSON.
func marshalResult(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	return string(data), nil
}
