// Package server hosts role form sessions over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-roleform/internal/metrics"
	"github.com/goliatone/go-roleform/pkg/apidoc"
	"github.com/goliatone/go-roleform/pkg/model"
	"github.com/goliatone/go-roleform/pkg/render"
	"github.com/goliatone/go-roleform/pkg/renderers/schemajson"
	"github.com/goliatone/go-roleform/pkg/renderers/vanilla"
	"github.com/goliatone/go-roleform/pkg/session"
)

// AssetsPrefix is the URL prefix the embedded stylesheet and runtime script
// are served from.
const AssetsPrefix = "/assets/"

// Option configures a Server.
type Option func(*Server)

// WithSessions replaces the default session manager.
func WithSessions(manager *session.Manager) Option {
	return func(s *Server) {
		if manager != nil {
			s.sessions = manager
		}
	}
}

// WithRenderers supplies the renderer registry. The HTML route resolves
// htmlRenderer from it; the schema route always uses the JSON renderer.
func WithRenderers(registry *render.Registry, htmlRenderer string) Option {
	return func(s *Server) {
		if registry != nil {
			s.renderers = registry
			s.htmlRenderer = htmlRenderer
		}
	}
}

// WithTheme attaches a resolved theme to every rendered form.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithMetrics records request and session metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Server owns the session manager and the routes that drive it.
type Server struct {
	schema       model.Schema
	sessions     *session.Manager
	renderers    *render.Registry
	htmlRenderer string
	theme        *theme.RendererConfig
	metrics      *metrics.Metrics
	logger       *zap.Logger
	apiDoc       *openapi3.T
	router       chi.Router
}

// New builds a server for schema. Every session starts from a private copy of
// schema.
func New(schema model.Schema, options ...Option) (*Server, error) {
	s := &Server{
		schema: schema.Clone(),
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.sessions == nil {
		s.sessions = session.NewManager(30*time.Minute, session.WithLogger(s.logger))
	}
	if s.renderers == nil {
		registry, err := defaultRenderers()
		if err != nil {
			return nil, err
		}
		s.renderers = registry
		s.htmlRenderer = vanilla.Name
	}
	if !s.renderers.Has(schemajson.Name) {
		if err := s.renderers.Register(schemajson.New()); err != nil {
			return nil, fmt.Errorf("server: register json renderer: %w", err)
		}
	}
	if _, err := s.renderers.Resolve(s.htmlRenderer); err != nil {
		return nil, fmt.Errorf("server: html renderer: %w", err)
	}

	doc, err := apidoc.Build(context.Background(), s.schema, apidoc.WithTitle(s.schema.Title))
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.apiDoc = doc
	s.router = s.routes()
	return s, nil
}

func defaultRenderers() (*render.Registry, error) {
	html, err := vanilla.New(
		vanilla.WithStandalone(true),
		vanilla.WithAssetURLs(AssetsPrefix+vanilla.StylesheetName, AssetsPrefix+vanilla.RuntimeScriptName),
	)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(schemajson.New())
	return registry, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions exposes the session manager.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.apiDoc)
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Handle(AssetsPrefix+"*", http.StripPrefix(AssetsPrefix, http.FileServer(http.FS(vanilla.AssetsFS()))))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleForm)
			r.Get("/schema", s.handleSchema)
			r.Post("/changes", s.handleChange)
			r.Post("/submit", s.handleSubmit)
			r.Get("/export", s.handleExport)
			r.Get("/ws", s.handleWebSocket)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// RunCleanup drops idle sessions every interval until ctx is done.
func (s *Server) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.sessions.Cleanup(); removed > 0 {
				s.logger.Info("expired idle sessions", zap.Int("removed", removed))
			}
			s.metrics.SetSessions(s.sessions.Len())
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("roleform server started", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info("server exited gracefully")
	return nil
}
