// Package server exposes the view engine over HTTP.
//
// Each browser tab owns a session: a snapshot name plus the navigation state
// (drill target, breadcrumbs, selection). Sessions are persisted through a
// session.Store so they survive restarts; the live view objects themselves
// are rebuilt on demand. Layout completions are pushed to connected clients
// over a websocket.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"archview/pkg/cache"
	"archview/pkg/session"
	"archview/pkg/store"
	"archview/pkg/view"
)

// Options configures a Server.
type Options struct {
	// Snapshots is the snapshot catalog. Required.
	Snapshots store.Store

	// Sessions persists navigation state. Required.
	Sessions session.Store

	// Engine computes layouts for every session view. Required.
	Engine view.Engine

	// Cache stores layout results across sessions. Nil disables caching.
	Cache cache.Cache

	// Direction is the flow direction for new views. Empty means down.
	Direction view.Direction

	// Logger receives request and lifecycle events. Nil means log.Default().
	Logger *log.Logger
}

// Server serves the view API.
type Server struct {
	opts   Options
	logger *log.Logger
	live   *liveRegistry
	router chi.Router
}

// New creates a server and builds its route table.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		opts:   opts,
		logger: logger,
		live:   newLiveRegistry(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshots", s.handleListSnapshots)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/view", s.handleGetView)
			r.Post("/actions", s.handleAction)
			r.Get("/search", s.handleSearch)
			r.Get("/ws", s.handleWebsocket)
			r.Delete("/", s.handleDeleteSession)
		})
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close tears down every live view.
func (s *Server) Close() {
	s.live.closeAll()
}

// requestLogger logs method, path, status and latency for each request.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start))
		})
	}
}

// persistState writes the session's current navigation state back to the
// session store. Persistence failures are logged, never surfaced: the live
// view is still correct.
func (s *Server) persistState(ctx context.Context, sess *session.Session, state view.ViewState) {
	sess.State = state
	sess.Touch(session.DefaultTTL)
	if err := s.opts.Sessions.Set(ctx, sess); err != nil {
		s.logger.Warn("persist session state", "session", sess.ID, "error", err)
	}
}
