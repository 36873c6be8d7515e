package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pbaille/biomixer/internal/gateway"
)

// Synthesizer is the proxy behind POST /api/synthesize
type Synthesizer interface {
	Synthesize(ctx context.Context, req gateway.Request) (string, error)
}

// Server handles HTTP requests for the synthesis proxy
type Server struct {
	gw        Synthesizer
	addr      string
	staticDir string
	logger    *zap.Logger
	metrics   *metrics
}

// Options configure a Server
type Options struct {
	Addr string
	// StaticDir holds the built front-end; empty disables static serving
	StaticDir string
	Logger    *zap.Logger
}

// New creates a new API server
func New(gw Synthesizer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		gw:        gw,
		addr:      opts.Addr,
		staticDir: opts.StaticDir,
		logger:    logger,
		metrics:   newMetrics(),
	}
}

// Handler returns the routed handler with CORS applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/synthesize", s.synthesize)
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", s.metrics.handler())

	if s.staticDir != "" {
		mux.Handle("GET /", s.static())
	}

	return withCORS(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", s.addr), zap.String("static", s.staticDir))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// withCORS adds CORS headers for the front-end dev server
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SynthesizeResponse is the success body of POST /api/synthesize
type SynthesizeResponse struct {
	Result string `json:"result"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) synthesize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req gateway.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.observe(gateway.KindValidation.String(), start)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text, err := s.gw.Synthesize(r.Context(), req)
	if err != nil {
		outcome := "error"
		var gerr *gateway.Error
		if errors.As(err, &gerr) {
			outcome = gerr.Kind.String()
		}
		s.metrics.observe(outcome, start)
		s.logger.Warn("synthesis failed",
			zap.Int("mechanisms", len(req.Mechanisms)),
			zap.String("model", req.Model),
			zap.Error(err))
		writeError(w, gateway.StatusOf(err), gateway.MessageOf(err))
		return
	}

	s.metrics.observe("ok", start)
	s.logger.Info("synthesis served",
		zap.Int("mechanisms", len(req.Mechanisms)),
		zap.String("model", req.Model),
		zap.Duration("elapsed", time.Since(start)))
	writeJSON(w, http.StatusOK, SynthesizeResponse{Result: text})
}

// static serves the built front-end, falling back to index.html so
// client-side routes resolve.
func (s *Server) static() http.Handler {
	files := http.FileServer(http.Dir(s.staticDir))
	index := filepath.Join(s.staticDir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		path := filepath.Join(s.staticDir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
