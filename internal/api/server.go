// Package api exposes the evaluator and converter over HTTP for the
// surrounding product code.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"hkb/internal/convert"
	"hkb/internal/engine"
	"hkb/internal/logging"
	"hkb/internal/storage"
)

// Server represents the HTTP API server
type Server struct {
	router    *http.ServeMux
	server    *http.Server
	addr      string
	logger    *logging.Logger
	evaluator *engine.Evaluator
	converter *convert.Converter
	history   *storage.History // optional, nil disables persistence
}

// NewServer creates a new HTTP server instance. history may be nil when
// the conversion cache is disabled.
func NewServer(addr string, evaluator *engine.Evaluator, converter *convert.Converter, history *storage.History, logger *logging.Logger) *Server {
	s := &Server{
		addr:      addr,
		logger:    logger,
		evaluator: evaluator,
		converter: converter,
		history:   history,
		router:    http.NewServeMux(),
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

func (s *Server) registerRoutes() {
	s.router.HandleFunc("POST /v1/evaluate", s.handleEvaluate)
	s.router.HandleFunc("POST /v1/convert", s.handleConvert)
	s.router.HandleFunc("GET /v1/ingredients", s.handleListIngredients)
	s.router.HandleFunc("GET /v1/ingredients/{id}", s.handleGetIngredient)
	s.router.HandleFunc("GET /healthz", s.handleHealth)
}

func (s *Server) applyMiddleware(h http.Handler) http.Handler {
	return RequestIDMiddleware(RecoveryMiddleware(s.logger)(LoggingMiddleware(s.logger)(h)))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", logging.Fields{
		"addr": s.addr,
	})

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
