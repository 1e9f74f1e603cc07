package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/smallyunet/memory-mcp-server/internal/prefs"
	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

// searchDefaultLimit caps search results when no limit parameter is given.
const searchDefaultLimit = 10

// handleRecordCommand stores a new command from a JSON body.
func (s *Server) handleRecordCommand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		CommandText string          `json:"command_text"`
		Tags        json.RawMessage `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, errInvalidJSON, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(body.CommandText) == "" {
		WriteError(w, errCommandTextRequired, http.StatusBadRequest)
		return
	}

	var tags []string
	if len(body.Tags) > 0 && string(body.Tags) != "null" {
		if err := json.Unmarshal(body.Tags, &tags); err != nil {
			WriteError(w, errTagsMustBeList, http.StatusBadRequest)
			return
		}
	}

	cmd, err := s.store.CreateCommand(body.CommandText, tags)
	if err != nil {
		s.logger.Error("failed to record command", zap.Error(err))
		WriteError(w, errInternal, http.StatusInternalServerError)
		return
	}

	if s.index != nil {
		if err := s.index.IndexCommand(cmd); err != nil {
			s.logger.Warn("failed to index recorded command",
				zap.Int64("id", cmd.ID),
				zap.Error(err))
		}
	}

	WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleCommands lists stored commands, newest first.
func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	limit, ok := intParam(w, r, "limit", 0)
	if !ok {
		return
	}

	commands, err := s.store.ListCommands(limit)
	if err != nil {
		s.logger.Error("failed to list commands", zap.Error(err))
		WriteError(w, errInternal, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, commands, http.StatusOK)
}

// handleStats returns usage statistics for the stored history.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.store.Stats()
	if err != nil {
		s.logger.Error("failed to compute stats", zap.Error(err))
		WriteError(w, errInternal, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, stats, http.StatusOK)
}

// handlePreferences returns the holistic preference summary.
func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	records, err := s.store.ListCommands(0)
	if err != nil {
		s.logger.Error("failed to list commands", zap.Error(err))
		WriteError(w, errInternal, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, s.engine.Holistic(records), http.StatusOK)
}

// handleContextualPreferences returns preferences narrowed to a context.
func (s *Server) handleContextualPreferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Context string `json:"context"`
		Limit   *int   `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, errInvalidJSON, http.StatusBadRequest)
		return
	}

	limit := prefs.DefaultContextLimit
	if body.Limit != nil {
		limit = *body.Limit
	}

	// Records are loaded only for a positive limit; the engine rejects the
	// rest before touching them.
	var records []storage.Command
	if limit > 0 {
		var err error
		records, err = s.store.ListCommands(limit)
		if err != nil {
			s.logger.Error("failed to list commands", zap.Error(err))
			WriteError(w, errInternal, http.StatusInternalServerError)
			return
		}
	}

	result, err := s.engine.Contextual(records, body.Context, limit)
	if err != nil {
		if prefs.IsInvalidArgument(err) {
			WriteErrorMessage(w, errInvalidArgument, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("failed to compute contextual preferences", zap.Error(err))
		WriteError(w, errInternal, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, result, http.StatusOK)
}

// handleSearchCommands runs a recency-blended full-text search.
func (s *Server) handleSearchCommands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	if s.index == nil {
		WriteError(w, errSearchUnavailable, http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		WriteErrorMessage(w, errInvalidArgument, "q must be a non-empty string", http.StatusBadRequest)
		return
	}

	limit, ok := intParam(w, r, "limit", searchDefaultLimit)
	if !ok {
		return
	}

	results, err := s.index.SearchRecent(query, limit)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		WriteError(w, errInternal, http.StatusInternalServerError)
		return
	}

	WriteJSON(w, map[string]interface{}{
		"query":         query,
		"total_results": len(results),
		"results":       results,
	}, http.StatusOK)
}

// intParam parses an optional integer query parameter. On a malformed value
// it writes a 400 response and reports false.
func intParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		WriteErrorMessage(w, errInvalidArgument, name+" must be an integer", http.StatusBadRequest)
		return 0, false
	}

	return value, true
}
