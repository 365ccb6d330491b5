// Package server exposes fragment ordering over HTTP.
//
// The API is a thin layer over [pipeline.Runner]: a request body carries a
// manifest, the response carries the ordering result or its constraint graph.
//
//	POST /v1/order?format=toml&compat=legacy
//	POST /v1/graph?graph=svg&detailed=true
//	GET  /healthz
//
// format selects the manifest encoding (json, yaml or toml, default json) and
// graph the rendered output (dot, svg or json, default svg).
//
// Ordering failures (cycles, conflicts, duplicate names) answer 422 with the
// error code and, for cycles and conflicts, the fragments involved.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/buildinfo"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/observability"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/pipeline"
)

// Config holds the listener settings.
type Config struct {
	Addr         string
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns the settings used by `fragorder serve`.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		MaxBodyBytes: 1 << 20,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server serves the ordering API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	start  time.Time
}

// New creates a server backed by runner. Zero fields of cfg take their
// defaults.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, runner: runner, logger: logger, start: time.Now()}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/order", s.handleOrder)
		r.Post("/graph", s.handleGraph)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
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
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String(), "version", buildinfo.Version)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// observe reports every request to the registered HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
