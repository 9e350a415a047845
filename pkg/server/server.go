package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"relay-hq/relay/pkg/config"
	"relay-hq/relay/pkg/monitor"
	"relay-hq/relay/pkg/pool"
	"relay-hq/relay/pkg/proxy"
	"relay-hq/relay/pkg/proxy/handlers"
	"relay-hq/relay/pkg/proxy/middleware"
	"relay-hq/relay/pkg/telemetry/metrics"
)

// Server is the relay's HTTP server. The pool, monitor, and router are
// injected at construction so tests can assemble isolated instances.
type Server struct {
	cfg     *config.Config
	pool    *pool.Manager
	monitor *monitor.Monitor
	router  *proxy.Router
	version string

	promRegistry *prometheus.Registry

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server over the given core components. promRegistry may be
// nil when metrics are disabled.
func New(cfg *config.Config, p *pool.Manager, m *monitor.Monitor, r *proxy.Router, promRegistry *prometheus.Registry, version string) *Server {
	return &Server{
		cfg:          cfg,
		pool:         p,
		monitor:      m,
		router:       r,
		version:      version,
		promRegistry: promRegistry,
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.ListenAddress,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting relay server",
			"address", s.cfg.Server.ListenAddress,
			"accounts", s.pool.Len(),
			"version", s.version,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown",
			"timeout", s.cfg.Server.ShutdownTimeout.String(),
		)

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("relay server stopped")
	})

	return shutdownErr
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	api := handlers.NewAPI(s.pool, s.monitor,
		s.cfg.Server.BaseURL,
		s.cfg.Server.ListenAddress,
		s.version,
		s.cfg.Monitor.MaxLogsPerQuery,
	)
	api.Register(mux)

	mux.Handle("/health", handlers.NewHealthHandler())
	mux.Handle("/ready", handlers.NewReadyHandler(s.pool))

	if s.promRegistry != nil {
		mux.Handle("/metrics", metrics.Handler(s.promRegistry))
	}

	// Everything else is proxied upstream.
	mux.Handle("/claude/", s.router)
	mux.Handle("/gemini/", s.router)

	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Logging(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(handler)

	return handler
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
