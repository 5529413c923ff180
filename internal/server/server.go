// Package server exposes chains and their month mosaics over HTTP.
//
// Routes:
//
//	GET    /health
//	GET    /chains
//	POST   /chains
//	GET    /chains/{id}
//	PATCH  /chains/{id}
//	DELETE /chains/{id}
//	GET    /chains/{id}/stats
//	POST   /chains/{id}/days/{date}/toggle
//	GET    /chains/{id}/months/{year}/{month}
//	POST   /chains/{id}/months/{year}/{month}/cells/{index}/toggle
//
// Errors are returned as a JSON envelope whose status is derived from the
// error code (see [errors.HTTPStatus]).
//
// [errors.HTTPStatus]: github.com/matzehuels/habitmosaic/pkg/errors.HTTPStatus
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/habitmosaic/pkg/chain"
	"github.com/matzehuels/habitmosaic/pkg/config"
	"github.com/matzehuels/habitmosaic/pkg/pipeline"
)

const readHeaderTimeout = 10 * time.Second

// Server serves the chain API.
type Server struct {
	chains *chain.Service
	runner *pipeline.Runner
	render config.RenderConfig
	cfg    config.ServerConfig
	logger *log.Logger
}

// New creates a server. A nil logger uses log.Default().
func New(chains *chain.Service, runner *pipeline.Runner, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		chains: chains,
		runner: runner,
		render: cfg.Render,
		cfg:    cfg.Server,
		logger: logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.withLogging)
	r.Use(cors(s.cfg.AllowOrigin))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})

	r.Get("/health", s.health)

	r.Route("/chains", func(r chi.Router) {
		r.Get("/", s.listChains)
		r.Post("/", s.createChain)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getChain)
			r.Patch("/", s.updateChain)
			r.Delete("/", s.deleteChain)
			r.Get("/stats", s.chainStats)
			r.Post("/days/{date}/toggle", s.toggleDay)
			r.Get("/months/{year}/{month}", s.month)
			r.Post("/months/{year}/{month}/cells/{index}/toggle", s.toggleCell)
		})
	})

	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
