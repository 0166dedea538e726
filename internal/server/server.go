// Package server runs the local development server for a generated site:
// a static file route over the published tree, a health endpoint and an
// optional Prometheus metrics endpoint.
package server

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Server serves the generated site over HTTP.
type Server struct {
	cfg      *config.Config
	recorder metrics.Recorder
	prom     *metrics.PrometheusRecorder
	started  time.Time
}

// New creates a server for the published site root. When the recorder is a
// PrometheusRecorder and metrics are enabled in the config, /metrics is
// exposed on the same listener.
func New(cfg *config.Config, recorder metrics.Recorder) *Server {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	s := &Server{cfg: cfg, recorder: recorder}
	if prom, ok := recorder.(*metrics.PrometheusRecorder); ok {
		s.prom = prom
	}
	return s
}

// Handler builds the full route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Serve.Root)))
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.cfg.Serve.Metrics && s.prom != nil {
		mux.Handle("/metrics", s.prom.HTTPHandler())
	}
	return s.countRequests(mux)
}

// Run binds the configured address and serves until the context is
// canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	// Bind before starting so address conflicts surface immediately
	// instead of inside the serve goroutine.
	ln, err := net.Listen("tcp", s.cfg.Serve.Addr)
	if err != nil {
		return serrors.Wrap(err, serrors.CategoryServer, serrors.SeverityFatal, "failed to bind server address").
			WithContext("addr", s.cfg.Serve.Addr)
	}

	s.started = time.Now()
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Serving site",
		logfields.Addr(ln.Addr().String()),
		logfields.Path(s.cfg.Serve.Root))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Server shutdown incomplete", logfields.Error(err))
		}
		<-errCh
		return nil
	case err := <-errCh:
		if stdErrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return serrors.Wrap(err, serrors.CategoryServer, serrors.SeverityFatal, "server terminated")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	})
}

// statusRecorder captures the response code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.recorder.IncHTTPRequest(rec.code)
	})
}
