// Package httpserver provides HTTP server infrastructure.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Server wraps http.Server with graceful shutdown support.
type Server struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// Config holds server configuration.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}

// New creates a new server.
func New(cfg Config, handler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    1 << 20,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Run serves until ctx is cancelled, then drains connections for at most
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("Shutting down HTTP server", zap.Duration("timeout", s.shutdownTimeout))
		shutdownDone <- s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("HTTP server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "listen")
	}
	if err := <-shutdownDone; err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.server.Addr
}
