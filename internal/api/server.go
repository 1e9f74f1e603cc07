/*
Package api serves the REST surface of the command memory over HTTP.

Routes mirror the MCP tools: recording, listing, stats, holistic and
contextual preferences, full-text search, and a liveness check.
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/smallyunet/memory-mcp-server/internal/prefs"
	"github.com/smallyunet/memory-mcp-server/internal/search"
	"github.com/smallyunet/memory-mcp-server/internal/storage"
)

// Server represents the HTTP API server.
type Server struct {
	router *http.ServeMux
	server *http.Server
	addr   string
	store  storage.Store
	index  *search.Index
	engine *prefs.Engine
	logger *zap.Logger
}

// NewServer creates a new HTTP server instance. index may be nil, which
// disables the search route.
func NewServer(addr string, store storage.Store, index *search.Index, engine *prefs.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		addr:   addr,
		store:  store,
		index:  index,
		engine: engine,
		logger: logger,
		router: http.NewServeMux(),
	}

	s.registerRoutes()

	handler := s.applyMiddleware(s.router)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// applyMiddleware wraps the handler with middleware in the correct order.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	// Apply middleware in reverse order (last one wraps first).
	handler = RecoveryMiddleware(s.logger)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware()(handler)
	handler = CORSMiddleware()(handler)
	return handler
}
