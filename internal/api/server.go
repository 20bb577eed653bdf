// Package api serves editing sessions and the course store over HTTP.
//
// Each session owns one editor. Clients drive it with the same pointer
// events the terminal editor produces and read back a snapshot of the
// course, including cached edge geometry and hover state.
//
//	POST   /sessions                 new session (?course=name to open a stored course)
//	GET    /sessions/{id}            snapshot
//	PUT    /sessions/{id}/mode       {"mode": "move"}
//	POST   /sessions/{id}/events     [{"type": "down", "x": 1, "y": 2}, ...]
//	GET    /sessions/{id}/export     course file JSON
//	GET    /sessions/{id}/render     SVG (?format=dot|svg|png)
//	POST   /sessions/{id}/save       {"name": "loop"}
//	DELETE /sessions/{id}
//	GET    /courses
//	GET    /courses/{name}
//	DELETE /courses/{name}
//
// Errors are JSON objects {"code": ..., "message": ...}.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flashtrack/pkg/buildinfo"
	"github.com/matzehuels/flashtrack/pkg/config"
	"github.com/matzehuels/flashtrack/pkg/render/dot"
	"github.com/matzehuels/flashtrack/pkg/session"
	"github.com/matzehuels/flashtrack/pkg/store"
)

// Options configures a Server.
type Options struct {
	Config   *config.Config
	Store    store.Store
	Sessions *session.Registry // created from Config.Server.SessionTTL when nil
	Renderer *dot.Renderer     // uncached when nil
	Logger   *log.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg      *config.Config
	store    store.Store
	sessions *session.Registry
	renderer *dot.Renderer
	logger   *log.Logger
	router   chi.Router
}

// New builds a server and its routes.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg:      cfg,
		store:    opts.Store,
		sessions: opts.Sessions,
		renderer: opts.Renderer,
		logger:   opts.Logger,
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.sessions == nil {
		ttl, err := cfg.SessionTTL()
		if err != nil {
			return nil, err
		}
		s.sessions = session.NewRegistry(ttl)
	}
	if s.renderer == nil {
		s.renderer = dot.NewRenderer(nil, 0)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Short()})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Put("/mode", s.setMode)
			r.Post("/events", s.applyEvents)
			r.Get("/export", s.exportSession)
			r.Get("/render", s.renderSession)
			r.Post("/save", s.saveSession)
		})
	})

	r.Route("/courses", func(r chi.Router) {
		r.Get("/", s.listCourses)
		r.Get("/{name}", s.getCourse)
		r.Delete("/{name}", s.deleteCourse)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept once a minute.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sessions.Run(ctx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}
