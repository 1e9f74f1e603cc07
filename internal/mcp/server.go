/*
Package mcp implements the MCP server that exposes the command memory.

The server uses stdio transport and exposes 8 tools:
  - record_command: store a natural-language command with optional tags
  - commands: list stored commands, newest first
  - stats: usage statistics over the stored history
  - preferences: holistic preference summary inferred from the history
  - contextual_preferences: preferences narrowed to a work context
  - memory_context: compact recent-history block for prompt injection
  - search_commands: full-text search over the history
  - help: tool catalog with usage notes

It also serves one resource, memory://user/recent, carrying the same
payload as memory_context with the default limit.
*/
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/smallyunet/memory-mcp-server/internal/prefs"
	"github.com/smallyunet/memory-mcp-server/internal/search"
	"github.com/smallyunet/memory-mcp-server/internal/storage"
	"github.com/smallyunet/memory-mcp-server/internal/version"
)

// recentResourceURI is the single-user recent-history resource.
const recentResourceURI = "memory://user/recent"

// serverInstructions is sent in the initialize result so the client model
// knows when to reach for each tool.
const serverInstructions = `memory-mcp remembers the user's natural-language commands and infers coding preferences from them.

Call record_command after each instruction the user gives. Call preferences before generating code to match the user's habits, or contextual_preferences with a short description of the current task for a narrower answer. memory_context returns a compact block of recent history suitable for prompt injection.`

// Server represents the memory-mcp MCP server.
type Server struct {
	store  storage.Store
	index  *search.Index
	engine *prefs.Engine
	logger *zap.Logger

	in  io.Reader
	out io.Writer

	// Defaults applied when a tool call omits its limit.
	recentLimit  int
	searchLimit  int
	contextLimit int
}

// NewServer creates a new MCP server. index may be nil, which disables
// search_commands.
func NewServer(store storage.Store, index *search.Index, engine *prefs.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		store:        store,
		index:        index,
		engine:       engine,
		logger:       logger,
		in:           os.Stdin,
		out:          os.Stdout,
		recentLimit:  prefs.DefaultRecentLimit,
		searchLimit:  defaultSearchLimit,
		contextLimit: prefs.DefaultContextLimit,
	}
}

// SetLimits overrides the default record counts used when a tool call
// omits its limit. Non-positive values keep the current defaults.
func (s *Server) SetLimits(recent, search, context int) {
	if recent > 0 {
		s.recentLimit = recent
	}
	if search > 0 {
		s.searchLimit = search
	}
	if context > 0 {
		s.contextLimit = context
	}
}

// Run starts the MCP server using stdio transport.
// This blocks until stdin is closed.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.in)

	for scanner.Scan() {
		line := scanner.Bytes()

		response, err := s.handleRequest(line)
		if err != nil {
			s.sendError(err)
			continue
		}

		// Notifications produce no response.
		if response != nil {
			s.sendResponse(response)
		}
	}

	return scanner.Err()
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest processes an incoming MCP request.
func (s *Server) handleRequest(data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req)
	case "notifications/initialized":
		return nil, nil
	case "tools/list":
		return s.handleToolsList(&req)
	case "tools/call":
		return s.handleToolsCall(&req)
	case "resources/list":
		return s.handleResourcesList(&req)
	case "resources/read":
		return s.handleResourcesRead(&req)
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32601, Message: "Method not found"},
		}, nil
	}
}

// handleInitialize handles the MCP initialize request.
func (s *Server) handleInitialize(req *MCPRequest) (*MCPResponse, error) {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools":     map[string]interface{}{},
				"resources": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "memory-mcp",
				"version": version.Version,
			},
			"instructions": serverInstructions,
		},
	}, nil
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(req *MCPRequest) (*MCPResponse, error) {
	tools := make([]map[string]interface{}, 0, len(toolCatalog))
	for _, tool := range toolCatalog {
		tools = append(tools, map[string]interface{}{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": tool.InputSchema,
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": tools,
		},
	}, nil
}

// handleToolsCall handles tool execution requests.
func (s *Server) handleToolsCall(req *MCPRequest) (*MCPResponse, error) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	var result string
	var err error

	switch params.Name {
	case "record_command":
		result, err = s.execRecordCommand(params.Arguments)
	case "commands":
		result, err = s.execCommands(intArg(params.Arguments, "limit", 0))
	case "stats":
		result, err = s.execStats()
	case "preferences":
		result, err = s.execPreferences()
	case "contextual_preferences":
		context := stringArg(params.Arguments, "context")
		limit := intArg(params.Arguments, "limit", s.contextLimit)
		result, err = s.execContextualPreferences(context, limit)
	case "memory_context":
		// token is accepted for compatibility and ignored: single user.
		limit := intArg(params.Arguments, "limit", s.recentLimit)
		result, err = s.execMemoryContext(limit)
	case "search_commands":
		query := stringArg(params.Arguments, "query")
		limit := intArg(params.Arguments, "limit", s.searchLimit)
		result, err = s.execSearchCommands(query, limit)
	case "help":
		result, err = s.execHelp()
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32602, Message: fmt.Sprintf("Unknown tool: %s", params.Name)},
		}, nil
	}

	if err != nil {
		code := -32000
		if prefs.IsInvalidArgument(err) {
			code = -32602
		}
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: code, Message: err.Error()},
		}, nil
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}, nil
}

// handleResourcesList returns the available resources.
func (s *Server) handleResourcesList(req *MCPRequest) (*MCPResponse, error) {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"resources": []map[string]interface{}{
				{
					"uri":         recentResourceURI,
					"name":        "Recent command history",
					"description": "The most recent recorded commands with a compact text digest",
					"mimeType":    "application/json",
				},
			},
		},
	}, nil
}

// handleResourcesRead serves the recent-history resource.
func (s *Server) handleResourcesRead(req *MCPRequest) (*MCPResponse, error) {
	var params struct {
		URI string `json:"uri"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if params.URI != recentResourceURI {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32602, Message: fmt.Sprintf("Unknown resource: %s", params.URI)},
		}, nil
	}

	payload, err := s.execMemoryContext(s.recentLimit)
	if err != nil {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32000, Message: err.Error()},
		}, nil
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"contents": []map[string]interface{}{
				{
					"uri":      recentResourceURI,
					"mimeType": "application/json",
					"text":     payload,
				},
			},
		},
	}, nil
}

// stringArg extracts a string argument, empty if absent.
func stringArg(args map[string]interface{}, key string) string {
	value, _ := args[key].(string)
	return value
}

// intArg extracts an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string, fallback int) int {
	value, ok := args[key].(float64)
	if !ok {
		return fallback
	}
	return int(value)
}

// sendResponse writes a JSON-RPC response to the output stream.
func (s *Server) sendResponse(resp *MCPResponse) {
	data, _ := json.Marshal(resp)
	fmt.Fprintln(s.out, string(data))
}

// sendError writes an error response to the output stream.
func (s *Server) sendError(err error) {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      nil,
		Error:   &MCPError{Code: -32700, Message: err.Error()},
	}
	s.sendResponse(resp)
}
