// Package handlers exposes the domain operations over an HTTP JSON API,
// including the public application-submission endpoint.
package handlers

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	endpoint   string
}

// NewServer constructs a Server listening on the given port.
func NewServer(port int, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{},
		logger:     logger,
		endpoint:   fmt.Sprintf(":%d", port),
	}
}

// RegisterHandler installs the request handler.
func (s *Server) RegisterHandler(h http.Handler) {
	s.httpServer.Handler = h
	s.httpServer.Addr = s.endpoint
}

// Start begins serving in the background, returning once the listener is
// bound.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.endpoint)
	if err != nil {
		return fmt.Errorf("HTTP listen error: %w", err)
	}

	go func() {
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.endpoint))
		if err := s.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP serve error", zap.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}
