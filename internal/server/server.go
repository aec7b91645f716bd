// Package server wires the playground harness, the example pages, and the
// HTTP lifecycle together.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/goliatone/go-formgen-playground/internal/config"
	"github.com/goliatone/go-formgen-playground/internal/logging"
	"github.com/goliatone/go-formgen-playground/internal/pages"
	"github.com/goliatone/go-formgen-playground/internal/view"
	"github.com/goliatone/go-formgen-playground/pkg/playground"
)

// PlaygroundBasePath prefixes the harness endpoints.
const PlaygroundBasePath = "/_playground"

// SiteName is shown in the page header and titles.
const SiteName = "formgen playground"

// Server serves the example pages behind the playground harness.
type Server struct {
	cfg        config.Config
	logger     *log.Logger
	playground *playground.Playground
	pages      *pages.Registry
	routes     playground.Routes
	handler    http.Handler

	mu   sync.Mutex
	addr net.Addr
}

// New builds the handler tree for cfg. cfg must already be validated.
func New(cfg config.Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	engine, err := view.New(
		view.WithFS(pages.TemplatesFS()),
		view.WithDir(cfg.TemplatesDir),
		view.WithGlobals(map[string]any{
			"site": map[string]any{"name": SiteName, "playground": PlaygroundBasePath},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("server: view engine: %w", err)
	}

	pg := playground.New(append(cfg.PlaygroundOptions(),
		playground.WithLogger(logger.WithPrefix("harness")),
	)...)

	registry := pages.NewRegistry()
	simpleList, err := pages.NewSimpleList(engine, logger.WithPrefix("pages"))
	if err != nil {
		return nil, fmt.Errorf("server: simple list: %w", err)
	}
	if err := registry.Register(simpleList); err != nil {
		return nil, err
	}
	if err := engine.SetGlobals(map[string]any{"nav": pages.Nav(registry)}); err != nil {
		return nil, fmt.Errorf("server: view globals: %w", err)
	}
	if cfg.TemplatesDir != "" {
		logger.Info("serving templates from disk", "dir", cfg.TemplatesDir)
	}

	s := &Server{
		cfg:        cfg,
		logger:     logger,
		playground: pg,
		pages:      registry,
	}

	mux := http.NewServeMux()
	routes, err := pg.RegisterRoutes(mux, PlaygroundBasePath)
	if err != nil {
		return nil, err
	}
	s.routes = routes
	for _, page := range registry.List() {
		mux.Handle(pages.Path(page), pg.Middleware(page))
	}
	mux.Handle("GET /{$}", pages.IndexHandler(registry, engine, logger.WithPrefix("pages")))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.handler = recoverer(logger, requestLogger(logger, mux))
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Playground exposes the harness for tests and embedding.
func (s *Server) Playground() *playground.Playground {
	return s.playground
}

// Routes returns the harness endpoints.
func (s *Server) Routes() playground.Routes {
	return s.routes
}

// Addr returns the bound listener address once Serve has started.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout. The session sweeper runs for the
// same lifetime.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.playground.Run(sweepCtx, s.cfg.Session.SweepInterval)

	s.logger.Info("listening", "addr", ln.Addr().String(), "pages", len(s.pages.List()))

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
