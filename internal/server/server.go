// Package server exposes the string store over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/runnerr0/stringlab/internal/config"
	"github.com/runnerr0/stringlab/internal/storage"
)

// APIPrefix is the base path of every string endpoint.
const APIPrefix = "/api/v1"

// Server serves the strings API over one Store.
type Server struct {
	store   storage.Store
	cfg     config.ServerConfig
	logger  *zap.SugaredLogger
	version string
	handler http.Handler
}

// New creates a Server. The store is owned by the caller.
func New(store storage.Store, cfg config.ServerConfig, logger *zap.SugaredLogger, version string) *Server {
	s := &Server{
		store:   store,
		cfg:     cfg,
		logger:  logger,
		version: version,
	}
	limiter := newLimiter(cfg.RateLimit, cfg.RateBurst)
	s.handler = s.recoverMiddleware(s.requestLogMiddleware(
		s.rateLimitMiddleware(limiter, s.corsMiddleware(s.routes()))))
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// routes registers every endpoint on a fresh mux.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET "+APIPrefix+"/strings/filter-by-natural-language", s.handlePhraseQuery)
	mux.HandleFunc("GET "+APIPrefix+"/strings/{string_value}", s.handleGetString)
	mux.HandleFunc("DELETE "+APIPrefix+"/strings/{string_value}", s.handleDeleteString)
	mux.HandleFunc("GET "+APIPrefix+"/strings", s.handleListStrings)
	mux.HandleFunc("POST "+APIPrefix+"/strings", s.handleCreateString)
	return mux
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.cfg.Addr())
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within server.shutdown_timeout_seconds.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Infow("Server listening", "addr", ln.Addr().String(), "version", s.version)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := time.Duration(s.cfg.ShutdownTimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.logger.Infow("Server shutting down", "timeout", timeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})

	return g.Wait()
}
