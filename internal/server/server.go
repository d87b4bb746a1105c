package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/AdaWorldAPI/cypherdoc/internal/runner"
)

// Server is the cypherdoc preview HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// ServerConfig holds all dependencies and settings for creating a Server.
type ServerConfig struct {
	// Runner executes queries for the /api/v1/run route. Required.
	Runner *runner.Client

	// SiteDir is the built site to serve at the root path. Empty disables
	// static serving (execution-proxy-only mode).
	SiteDir string

	Logger *slog.Logger

	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	Version             string
	MaxRequestBodyBytes int64
}

// New creates a preview server with all routes configured.
func New(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := cfg.MaxRequestBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	h := &Handlers{
		runner:              cfg.Runner,
		logger:              logger,
		version:             cfg.Version,
		maxRequestBodyBytes: maxBody,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/run", h.HandleRun)
	mux.HandleFunc("GET /health", h.HandleHealth)

	// Site catch-all registered last so API routes take priority.
	if cfg.SiteDir != "" {
		mux.Handle("/", newSiteHandler(cfg.SiteDir))
		logger.Info("serving site", "dir", cfg.SiteDir)
	}

	// Middleware chain (outermost executes first):
	// request ID → tracing → logging → recovery → handler.
	var handler http.Handler = mux
	handler = recoveryMiddleware(logger, handler)
	handler = loggingMiddleware(logger, handler)
	handler = tracingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: handler,
		logger:  logger,
	}
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
