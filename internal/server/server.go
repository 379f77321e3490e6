// Package server exposes a loaded cactus diagram over HTTP.
//
// The server holds one tree, laid out once at startup, and any number of
// viewport sessions. A session owns a viewport controller and its own scene;
// clients post pointer, wheel and touch events to it and fetch rendered
// frames. Sessions live in memory only and expire after an idle timeout.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cactus/pkg/buildinfo"
	"github.com/matzehuels/cactus/pkg/cache"
	cerrors "github.com/matzehuels/cactus/pkg/errors"
	cactusio "github.com/matzehuels/cactus/pkg/io"
	"github.com/matzehuels/cactus/pkg/pipeline"
	"github.com/matzehuels/cactus/pkg/scene"
	"github.com/matzehuels/cactus/pkg/viewport"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 30 * time.Minute

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Config configures a Server.
type Config struct {
	// Render holds the layout and style options; Source must be set.
	Render     pipeline.Options
	Viewport   viewport.Config
	SessionTTL time.Duration
}

// Server serves one tree and its viewport sessions.
type Server struct {
	Logger *log.Logger

	cfg    Config
	layout *cactusio.Layout

	// mu guards scene, whose route cache is filled lazily.
	mu    sync.Mutex
	scene *scene.Scene

	sessions *sessionStore
}

// New loads and lays out the configured tree through runner.
func New(ctx context.Context, runner *pipeline.Runner, cfg Config, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.Viewport == (viewport.Config{}) {
		cfg.Viewport = viewport.DefaultConfig()
	}
	opts := cfg.Render
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cfg.Render = opts

	doc, err := runner.Load(ctx, opts.Source)
	if err != nil {
		return nil, err
	}
	hash, err := cache.HashJSON(doc)
	if err != nil {
		return nil, err
	}
	l, hit, err := runner.LayoutWithCacheInfo(ctx, doc, hash, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("tree ready", "source", opts.Source.Name(), "nodes", len(l.Nodes), "cached", hit)

	return &Server{
		Logger:   logger,
		cfg:      cfg,
		layout:   l,
		scene:    pipeline.NewScene(l, opts),
		sessions: newSessionStore(cfg.SessionTTL),
	}, nil
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/tree", s.handleTree)
		r.Get("/route", s.handleRoute)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/events", s.handleEvents)
			r.Get("/frame.{format}", s.handleFrame)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) sweep(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.sessions.expire(now); n > 0 {
				s.Logger.Debug("expired sessions", "count", n)
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"build":    buildinfo.Get(),
		"sessions": s.sessions.len(),
	})
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    cerrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := cerrors.HTTPStatus(err)
	code := cerrors.GetCode(err)
	if code == "" {
		code = cerrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: cerrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
