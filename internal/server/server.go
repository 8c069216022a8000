// Package server owns the HTTP lifecycle of notesd.
//
// It composes the configuration and logger into an http.Server, starts
// it, and handles graceful shutdown. Everything request-scoped lives in
// the router and the endpoint contracts; this package only runs them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ferren/charter/internal/config"
)

// Server holds the daemon's long-lived pieces.
type Server struct {
	Config *config.Config
	Logger zerolog.Logger

	httpServer *http.Server
}

// New constructs a Server. The HTTP side is configured separately in
// SetupHTTPServer so the router can be assembled in between.
func New(cfg *config.Config, log zerolog.Logger) *Server {
	return &Server{
		Config: cfg,
		Logger: log,
	}
}

// SetupHTTPServer configures the internal net/http server around the
// given handler (the Echo instance). Config timeouts are whole seconds;
// they guard against slow clients holding connections open.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops and
// returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("sink", s.Config.Events.Sink).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting new connections and waits for in-flight
// requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	return nil
}
