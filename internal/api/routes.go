package api

import (
	"net/http"

	"github.com/smallyunet/memory-mcp-server/internal/version"
)

// registerRoutes registers all API routes.
func (s *Server) registerRoutes() {
	// Liveness check
	s.router.HandleFunc("/healthz", s.handleHealthz)

	// Command history
	s.router.HandleFunc("/record_command", s.handleRecordCommand) // POST
	s.router.HandleFunc("/commands", s.handleCommands)            // GET
	s.router.HandleFunc("/commands/search", s.handleSearchCommands)
	s.router.HandleFunc("/stats", s.handleStats)

	// Preference inference
	s.router.HandleFunc("/preferences", s.handlePreferences)
	s.router.HandleFunc("/preferences/contextual", s.handleContextualPreferences) // POST

	// Root endpoint
	s.router.HandleFunc("/", s.handleRoot)
}

// handleRoot handles requests to the root path.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	// Only handle exact root path.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if r.Method != http.MethodGet {
		WriteError(w, errMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"name":    "memory-mcp HTTP API",
		"version": version.Version,
		"endpoints": []string{
			"GET /healthz - Liveness check",
			"POST /record_command - Record a command with optional tags",
			"GET /commands?limit=N - List stored commands, newest first",
			"GET /commands/search?q=query&limit=N - Full-text search over commands",
			"GET /stats - Usage statistics",
			"GET /preferences - Holistic preference summary",
			"POST /preferences/contextual - Preferences narrowed to a context",
		},
	}

	WriteJSON(w, response, http.StatusOK)
}
