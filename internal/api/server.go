// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

const (
	defaultAddr            = ":8081"
	defaultShutdownTimeout = 10 * time.Second
)

// Server runs the HTTP API until its context ends, then shuts down gracefully.
type Server struct {
	srv     *http.Server
	timeout time.Duration
	log     *zap.Logger
}

// NewServer wraps handler in an http.Server configured from cfg.
func NewServer(cfg types.ServerConfig, handler http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		timeout: timeout,
		log:     log,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
		errc <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.log.Info("shutting down http server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}
