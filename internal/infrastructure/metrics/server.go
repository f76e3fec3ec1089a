package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPath is the metrics endpoint path.
const DefaultPath = "/metrics"

const readHeaderTimeout = 5 * time.Second

// ErrServerRunning is returned by Start on a running server.
var ErrServerRunning = errors.New("metrics: server already running")

// Server serves a Metrics registry over HTTP.
type Server struct {
	addr    string
	path    string
	metrics *Metrics

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer creates a server for m on addr (host:port). An empty path
// uses DefaultPath.
func NewServer(addr, path string, m *Metrics) *Server {
	if path == "" {
		path = DefaultPath
	}
	return &Server{addr: addr, path: path, metrics: m}
}

// Handler returns the HTTP handler serving the metrics path and /health.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)

	r.Method(http.MethodGet, s.path, promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return r
}

// recoveryMiddleware turns a handler panic into a 500 response.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return ErrServerRunning
	}

	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("metrics: listening on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	s.server = srv
	s.listener = lis

	go func() {
		_ = srv.Serve(lis)
	}()
	return nil
}

// Addr returns the listening address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics: shutdown: %w", err)
	}
	return nil
}
