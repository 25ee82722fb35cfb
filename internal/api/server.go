// Package api serves the wordbank engine over HTTP.
//
// Two groups of routes are mounted under /v1:
//   - stateless computation on snapshots (layout and ordering), the
//     offloaded path of the engine
//   - server-owned boards in a session.Store, driven by taps and drags
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with a
// status derived from the error code.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wordbank/pkg/buildinfo"
	"github.com/matzehuels/wordbank/pkg/config"
	"github.com/matzehuels/wordbank/pkg/pipeline"
	"github.com/matzehuels/wordbank/pkg/session"
)

type healthBody struct {
	OK    bool           `json:"ok"`
	Build buildinfo.Info `json:"build"`
}

// Options configures a Server.
type Options struct {
	Runner   *pipeline.Runner
	Sessions session.Store
	Layout   config.LayoutConfig
	Logger   *log.Logger

	// RequestTimeout bounds every handler; zero means 10s.
	RequestTimeout time.Duration
	// SessionTTL is the idle lifetime of new sessions.
	SessionTTL time.Duration
	// CleanupInterval is how often expired sessions are swept.
	CleanupInterval time.Duration
}

// Server bundles router, layout runner and session store.
type Server struct {
	r      *chi.Mux
	opts   Options
	logger *log.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}
	if opts.Layout.WordHeight == 0 {
		opts.Layout = config.Default().Layout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = session.DefaultTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = session.DefaultCleanupInterval
	}

	s := &Server{r: chi.NewRouter(), opts: opts, logger: opts.Logger}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(opts.RequestTimeout))
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthBody{OK: true, Build: buildinfo.Get()})
	})

	s.r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/layout/batch", s.handleLayoutBatch)
		r.Route("/order", func(r chi.Router) {
			r.Post("/last", s.handleLastOrder)
			r.Post("/remove", s.handleRemove)
			r.Post("/reorder", s.handleReorder)
			r.Post("/move", s.handleMove)
		})
		r.Post("/between", s.handleBetween)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/measure", s.handleMeasure)
			r.Put("/container", s.handleContainer)
			r.Post("/tap", s.handleTap)
			r.Post("/drag/begin", s.handleDragBegin)
			r.Post("/drag/update", s.handleDragUpdate)
			r.Post("/drag/end", s.handleDragEnd)
			r.Post("/drag/cancel", s.handleDragCancel)
			r.Post("/orders", s.handleSetOrders)
			r.Post("/target", s.handleApplyTarget)
			r.Get("/words", s.handleWords)
		})
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path}})
	})

	return s
}

// Handler exposes the router (useful for tests and embedding).
func (s *Server) Handler() http.Handler { return s.r }

// Serve listens on addr until ctx is cancelled, then shuts down
// gracefully. It also sweeps expired sessions in the background.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go s.cleanupLoop(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) cleanupLoop(ctx context.Context) {
	t := time.NewTicker(s.opts.CleanupInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.opts.Sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}
