// Package api serves the calculator over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/pario-ai/premiumcalc/pkg/config"
	"github.com/pario-ai/premiumcalc/pkg/metrics"
	"github.com/pario-ai/premiumcalc/pkg/models"
)

// Recorder appends successful estimates to a history log.
type Recorder interface {
	Log(ctx context.Context, rec models.HistoryRecord) (models.HistoryRecord, error)
}

// Server is the premiumcalc HTTP API.
type Server struct {
	cfg     *config.Config
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	history Recorder
	router  *mux.Router
	handler http.Handler
	allowed map[string][]string
	now     func() time.Time
}

// Option configures optional Server collaborators.
type Option func(*Server)

// WithMetrics instruments the server and exposes the metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithHistory records every successful calculation in rec.
func WithHistory(rec Recorder) Option {
	return func(s *Server) { s.history = rec }
}

// New creates a Server with its routes and middleware.
func New(cfg *config.Config, log logrus.FieldLogger, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		router:  mux.NewRouter(),
		allowed: make(map[string][]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	s.handle("/api/health", s.handleHealth, http.MethodGet)
	s.handle("/api/models", s.handleModels, http.MethodGet)
	s.handle("/api/plans", s.handlePlans, http.MethodGet)
	s.handle("/api/calculate", s.handleCalculate, http.MethodPost)
	if s.metrics != nil && cfg.Metrics.Enabled && !cfg.Metrics.Separate() {
		s.router.Handle(cfg.Metrics.Path, s.metrics.Handler()).Methods(http.MethodGet)
		s.allowed[cfg.Metrics.Path] = []string{http.MethodGet}
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)

	middlewares := []func(http.Handler) http.Handler{
		RequestID,
		Logger(log),
		Recovery(log),
		SecurityHeaders,
		CORS(cfg.CORS.Origins),
	}
	if s.metrics != nil {
		middlewares = append(middlewares, s.metrics.Middleware(s.routeLabel))
	}
	s.handler = Chain(s.router, middlewares...)
	return s
}

func (s *Server) handle(path string, fn http.HandlerFunc, methods ...string) {
	s.router.HandleFunc(path, fn).Methods(methods...)
	s.allowed[path] = append(s.allowed[path], methods...)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	methods := append([]string(nil), s.allowed[r.URL.Path]...)
	sort.Strings(methods)
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// routeLabel keeps the metrics label set bounded to known routes.
func (s *Server) routeLabel(r *http.Request) string {
	if _, ok := s.allowed[r.URL.Path]; ok {
		return r.URL.Path
	}
	return "unmatched"
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
	return serve(ctx, srv, s.cfg.Server.ShutdownTimeout, s.log.WithField("listener", "api"))
}

// MetricsHandler serves only the metrics endpoint, for a dedicated listener.
func MetricsHandler(cfg *config.Config, m *metrics.Metrics) http.Handler {
	r := mux.NewRouter()
	r.Handle(cfg.Metrics.Path, m.Handler()).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	return r
}

// ListenAndServeMetrics serves the metrics endpoint on cfg.Metrics.Listen
// until ctx is cancelled.
func ListenAndServeMetrics(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log logrus.FieldLogger) error {
	srv := &http.Server{
		Addr:        cfg.Metrics.Listen,
		Handler:     MetricsHandler(cfg, m),
		ReadTimeout: cfg.Server.ReadTimeout,
	}
	return serve(ctx, srv, cfg.Server.ShutdownTimeout, log.WithField("listener", "metrics"))
}

func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, log logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("premiumcalc listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
