package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/smallyunet/memory-mcp-server/internal/prefs"
	"github.com/smallyunet/memory-mcp-server/internal/search"
	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

// newTestServer creates a server over a temporary database.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := storage.New(filepath.Join(t.TempDir(), "memory.db"), zap.NewNop())
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	index, err := search.NewIndex(nil)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	t.Cleanup(func() { index.Close() })

	engine := prefs.NewEngine(prefs.Options{})

	return NewServer("127.0.0.1:0", store, index, engine, zap.NewNop())
}

func doGet(t *testing.T, server *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func doPost(t *testing.T, server *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse error body: %v", err)
	}
	return resp.Error
}

func TestHealthzEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := doGet(t, server, "/healthz")

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", response["status"])
	}
}

func TestRecordCommandEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := doPost(t, server, "/record_command",
		`{"command_text":"Write unit tests for the parser","tags":["test","python"]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", response["status"])
	}

	listResp := doGet(t, server, "/commands")

	var commands []map[string]interface{}
	if err := json.Unmarshal(listResp.Body.Bytes(), &commands); err != nil {
		t.Fatalf("failed to parse commands: %v", err)
	}

	if len(commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(commands))
	}

	if commands[0]["command_text"] != "Write unit tests for the parser" {
		t.Errorf("unexpected command text: %v", commands[0]["command_text"])
	}
}

func TestRecordCommandInvalidJSON(t *testing.T) {
	server := newTestServer(t)

	w := doPost(t, server, "/record_command", `{not json`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if code := errorCode(t, w); code != "invalid_json" {
		t.Errorf("expected error invalid_json, got %s", code)
	}
}

func TestRecordCommandMissingText(t *testing.T) {
	server := newTestServer(t)

	w := doPost(t, server, "/record_command", `{"tags":["python"]}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if code := errorCode(t, w); code != "command_text_required" {
		t.Errorf("expected error command_text_required, got %s", code)
	}
}

func TestRecordCommandNonListTags(t *testing.T) {
	server := newTestServer(t)

	w := doPost(t, server, "/record_command", `{"command_text":"Refactor auth","tags":"refactor"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if code := errorCode(t, w); code != "tags_must_be_list" {
		t.Errorf("expected error tags_must_be_list, got %s", code)
	}
}

func TestRecordCommandMethodNotAllowed(t *testing.T) {
	server := newTestServer(t)

	w := doGet(t, server, "/record_command")

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestCommandsNewestFirst(t *testing.T) {
	server := newTestServer(t)

	doPost(t, server, "/record_command", `{"command_text":"first command"}`)
	doPost(t, server, "/record_command", `{"command_text":"second command"}`)

	w := doGet(t, server, "/commands")

	var commands []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &commands); err != nil {
		t.Fatalf("failed to parse commands: %v", err)
	}

	if len(commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(commands))
	}

	if commands[0]["command_text"] != "second command" {
		t.Errorf("expected newest command first, got %v", commands[0]["command_text"])
	}
}

func TestCommandsLimitParam(t *testing.T) {
	server := newTestServer(t)

	doPost(t, server, "/record_command", `{"command_text":"first command"}`)
	doPost(t, server, "/record_command", `{"command_text":"second command"}`)

	w := doGet(t, server, "/commands?limit=1")

	var commands []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &commands); err != nil {
		t.Fatalf("failed to parse commands: %v", err)
	}

	if len(commands) != 1 {
		t.Errorf("expected 1 command, got %d", len(commands))
	}

	bad := doGet(t, server, "/commands?limit=abc")
	if bad.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for malformed limit, got %d", bad.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	server := newTestServer(t)

	doPost(t, server, "/record_command", `{"command_text":"Refactor auth module","tags":["refactor","python"]}`)

	w := doGet(t, server, "/stats")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var stats struct {
		TotalCommands int      `json:"total_commands"`
		TopKeywords   []string `json:"top_keywords"`
		ActiveHours   []string `json:"active_hours"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to parse stats: %v", err)
	}

	if stats.TotalCommands != 1 {
		t.Errorf("expected 1 command, got %d", stats.TotalCommands)
	}

	if len(stats.TopKeywords) != 2 {
		t.Errorf("expected 2 top keywords, got %v", stats.TopKeywords)
	}

	if len(stats.ActiveHours) != 1 {
		t.Errorf("expected 1 active hour bucket, got %v", stats.ActiveHours)
	}
}

func TestPreferencesEndpoint(t *testing.T) {
	server := newTestServer(t)

	doPost(t, server, "/record_command", `{"command_text":"Write unit tests for the parser","tags":["test","python"]}`)
	doPost(t, server, "/record_command", `{"command_text":"Refactor auth module","tags":["refactor","python"]}`)

	w := doGet(t, server, "/preferences")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var result struct {
		PreferredLanguage *string `json:"preferred_language"`
		Confidence        float64 `json:"preferred_language_confidence"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse preferences: %v", err)
	}

	if result.PreferredLanguage == nil || *result.PreferredLanguage != "python" {
		t.Errorf("expected preferred language python, got %v", result.PreferredLanguage)
	}

	if result.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", result.Confidence)
	}
}

func TestContextualPreferencesEndpoint(t *testing.T) {
	server := newTestServer(t)

	doPost(t, server, "/record_command", `{"command_text":"Update README with setup docs","tags":["docs"]}`)

	w := doPost(t, server, "/preferences/contextual", `{"context":"improve the documentation"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result struct {
		MatchedGroups []string `json:"matched_groups"`
		Context       string   `json:"context"`
		Note          string   `json:"note"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse contextual preferences: %v", err)
	}

	if len(result.MatchedGroups) != 1 || result.MatchedGroups[0] != "documentation" {
		t.Errorf("expected matched_groups [documentation], got %v", result.MatchedGroups)
	}

	if result.Context != "improve the documentation" {
		t.Errorf("expected context echoed back, got %q", result.Context)
	}

	if result.Note != "" {
		t.Errorf("expected no note for a matched context, got %q", result.Note)
	}
}

func TestContextualPreferencesBlankContext(t *testing.T) {
	server := newTestServer(t)

	w := doPost(t, server, "/preferences/contextual", `{"context":"   "}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if code := errorCode(t, w); code != "invalid_argument" {
		t.Errorf("expected error invalid_argument, got %s", code)
	}
}

func TestContextualPreferencesInvalidLimit(t *testing.T) {
	server := newTestServer(t)

	w := doPost(t, server, "/preferences/contextual", `{"context":"update the README","limit":0}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	if code := errorCode(t, w); code != "invalid_argument" {
		t.Errorf("expected error invalid_argument, got %s", code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	server := newTestServer(t)

	doPost(t, server, "/record_command", `{"command_text":"deploy the api gateway","tags":["deploy"]}`)
	doPost(t, server, "/record_command", `{"command_text":"update the readme"}`)

	w := doGet(t, server, "/commands/search?q=deploy")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var result struct {
		Query        string                   `json:"query"`
		TotalResults int                      `json:"total_results"`
		Results      []map[string]interface{} `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse search result: %v", err)
	}

	if result.TotalResults != 1 {
		t.Fatalf("expected 1 result, got %d", result.TotalResults)
	}

	if result.Results[0]["command_text"] != "deploy the api gateway" {
		t.Errorf("unexpected search hit: %v", result.Results[0]["command_text"])
	}
}

func TestSearchMissingQuery(t *testing.T) {
	server := newTestServer(t)

	w := doGet(t, server, "/commands/search")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestSearchUnavailableWithoutIndex(t *testing.T) {
	server := newTestServer(t)
	server.index = nil

	w := doGet(t, server, "/commands/search?q=deploy")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}

	if code := errorCode(t, w); code != "search_unavailable" {
		t.Errorf("expected error search_unavailable, got %s", code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	server := newTestServer(t)

	w := doGet(t, server, "/healthz")

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected generated X-Request-ID header")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	echoed := httptest.NewRecorder()
	server.ServeHTTP(echoed, req)

	if echoed.Header().Get("X-Request-ID") != "fixed-id" {
		t.Errorf("expected echoed request ID, got %s", echoed.Header().Get("X-Request-ID"))
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/record_command", nil)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for preflight, got %d", w.Code)
	}

	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS allow-origin header")
	}
}

func TestRootEndpoint(t *testing.T) {
	server := newTestServer(t)

	w := doGet(t, server, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}

	if response["name"] != "memory-mcp HTTP API" {
		t.Errorf("unexpected service name: %v", response["name"])
	}

	missing := doGet(t, server, "/nope")
	if missing.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", missing.Code)
	}
}
