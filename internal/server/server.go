// Package server wraps http.Server with the timeouts and TLS settings used
// by the routing service.
package server

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"conversation-router/internal/config"
)

// Server represents an HTTP server
type Server struct {
	srv     *http.Server
	tlsCert string
	tlsKey  string
}

// New creates a server listening on the configured port. TLS is enabled when
// both TLS_CERT_FILE and TLS_KEY_FILE are set.
func New(handler http.Handler, cfg *config.Config) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		tlsCert: cfg.TLSCertFile,
		tlsKey:  cfg.TLSKeyFile,
	}
}

// Start starts the server
func (s *Server) Start() error {
	if s.tlsCert != "" && s.tlsKey != "" {
		// Configure TLS
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
		s.srv.TLSConfig = tlsConfig

		// Start HTTPS server in goroutine
		go func() {
			if err := s.srv.ListenAndServeTLS(s.tlsCert, s.tlsKey); err != nil && err != http.ErrServerClosed {
				panic(err)
			}
		}()
		return nil
	}

	// Start HTTP server in goroutine
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
