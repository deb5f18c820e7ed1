// Package server exposes the questionnaire over HTTP: a stateless calculate
// endpoint and per-session endpoints that drive a session.Controller.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/greendilt/digicarbon/internal/insight"
	"github.com/greendilt/digicarbon/internal/logging"
	"github.com/greendilt/digicarbon/internal/session"
)

// ReadHeaderTimeout is used by callers building the http.Server.
const ReadHeaderTimeout = 5 * time.Second

// Server routes HTTP requests to the session manager.
type Server struct {
	sessions  *session.Manager
	generator *insight.Generator
	logger    zerolog.Logger
	registry  *prometheus.Registry
	metrics   *Metrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGenerator sets the generator used by the stateless calculate endpoint.
func WithGenerator(g *insight.Generator) Option {
	return func(s *Server) { s.generator = g }
}

// NewServer returns a server over sessions with its own metrics registry.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions: sessions,
		logger:   zerolog.Nop(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = insight.NewGenerator(nil)
	}
	s.logger = logging.ComponentLogger(s.logger, "server")
	s.metrics = NewMetrics(s.registry, sessions.Len)
	return s
}

// Registry returns the registry served on /metrics.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/factors", s.handleFactors)
		r.Post("/calculate", s.handleCalculate)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/role", s.handleSelectRole)
			r.Post("/devices", s.handleAddDevice)
			r.Patch("/devices/{deviceID}", s.handleUpdateDevice)
			r.Delete("/devices/{deviceID}", s.handleRemoveDevice)
			r.Put("/activities", s.handleSetActivities)
			r.Put("/habits", s.handleSetHabits)
			r.Put("/ai", s.handleSetAIUsage)
			r.Post("/submit", s.handleSubmit)
			r.Get("/insights", s.handleInsights)
			r.Post("/back", s.handleBack)
			r.Post("/reset", s.handleReset)
		})
	})

	return r
}

// observe logs each request and records its metrics under the matched
// route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		traceID := r.Header.Get("X-Request-ID")
		if traceID == "" {
			traceID = logging.GetOrGenerateTraceID(r.Context())
		}
		w.Header().Set("X-Request-ID", traceID)

		ctx := logging.ContextWithTraceID(r.Context(), traceID)
		ctx = s.logger.WithContext(ctx)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.observeRequest(route, r.Method, ww.Status(), elapsed.Seconds())

		s.logger.Info().Ctx(ctx).
			Str(logging.FieldOperation, "request").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", route).
			Int("status", ww.Status()).
			Int64(logging.FieldDuration, elapsed.Milliseconds()).
			Msg("request served")
	})
}
