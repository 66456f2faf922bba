package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"htmlexport/internal/exporter"
	"htmlexport/pkg/htmlwriter"
	"htmlexport/pkg/transcript"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TranscriptExt is the file extension of served transcripts.
const TranscriptExt = ".log"

var errInvalidName = errors.New("invalid transcript name")

// Server renders transcripts from a directory on request.
type Server struct {
	dir      string
	exporter *exporter.Exporter
	registry *prometheus.Registry
	metrics  *metrics
}

// New creates a server for the transcripts in dir.
func New(dir string, opts exporter.Options) (*Server, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat transcript directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	registry := prometheus.NewRegistry()
	return &Server{
		dir:      dir,
		exporter: exporter.New(opts),
		registry: registry,
		metrics:  newMetrics(registry),
	}, nil
}

// loggingMiddleware logs each HTTP request
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		slog.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker to support WebSocket upgrades
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not support hijacking")
}

// Flush implements http.Flusher to support streaming
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// SetupRoutes returns the HTTP handler of the server.
func (s *Server) SetupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.loggingMiddleware)

	r.Get("/", s.handleIndex)
	r.Get("/transcripts/{name}", s.handleTranscript)
	r.Get("/ws/transcripts/{name}", s.handleWSTranscript)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// Start serves on addr until the server fails.
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "url", "http://"+addr, "dir", s.dir)
	return http.ListenAndServe(addr, s.SetupRoutes())
}

// Run starts a server for dir on localhost:port.
func Run(dir, port string, opts exporter.Options) error {
	srv, err := New(dir, opts)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(fmt.Sprintf("localhost:%s", port))
}

// transcriptPath validates name and returns the file it refers to.
func (s *Server) transcriptPath(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\"<>`) || strings.HasPrefix(name, ".") ||
		!strings.HasSuffix(name, TranscriptExt) {
		return "", fmt.Errorf("%w: %q", errInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// loadTranscript reads a transcript and reports failures as HTTP errors.
// It returns false when a response has been written.
func (s *Server) loadTranscript(w http.ResponseWriter, r *http.Request) ([]transcript.Entry, bool) {
	name := chi.URLParam(r, "name")
	path, err := s.transcriptPath(name)
	if err != nil {
		http.Error(w, "Invalid transcript name", http.StatusBadRequest)
		return nil, false
	}

	entries, err := transcript.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, "Transcript not found", http.StatusNotFound)
			return nil, false
		}
		slog.Error("Failed to read transcript", "name", name, "error", err)
		http.Error(w, "Failed to read transcript", http.StatusInternalServerError)
		return nil, false
	}
	return entries, true
}

// listTranscripts returns the names of all transcripts, sorted.
func (s *Server) listTranscripts() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript directory: %w", err)
	}
	var names []string
	for _, entry := range dirEntries {
		if !entry.Type().IsRegular() {
			continue
		}
		if _, err := s.transcriptPath(entry.Name()); err == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := s.listTranscripts()
	if err != nil {
		slog.Error("Failed to list transcripts", "error", err)
		http.Error(w, "Failed to list transcripts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = s.render(w, transportHTTP, func(hw *htmlwriter.Writer) error {
		return writeIndex(hw, names)
	})
	if err != nil {
		slog.Error("Failed to render index", "error", err)
	}
}

func writeIndex(w *htmlwriter.Writer, names []string) error {
	if err := w.WriteRaw("<!DOCTYPE html>\n"); err != nil {
		return err
	}
	if err := w.OpenTag("html"); err != nil {
		return err
	}
	if err := w.OpenTag("body"); err != nil {
		return err
	}
	if err := w.OpenTag("ul"); err != nil {
		return err
	}
	for _, name := range names {
		if err := w.OpenTag("li"); err != nil {
			return err
		}
		// listTranscripts only returns names without quotes or angle brackets.
		if err := w.OpenTag("a", htmlwriter.A("href", "/transcripts/"+name)); err != nil {
			return err
		}
		if err := w.WriteText(name); err != nil {
			return err
		}
		if _, err := w.CloseTag(); err != nil {
			return err
		}
		if _, err := w.CloseTag(); err != nil {
			return err
		}
	}
	return w.CloseAll()
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.loadTranscript(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := s.render(w, transportHTTP, func(hw *htmlwriter.Writer) error {
		return s.exporter.WriteDocument(r.Context(), hw, entries)
	})
	if err != nil {
		// Headers are already sent, the client sees a truncated document.
		slog.Error("Failed to render transcript", "path", r.URL.Path, "error", err)
	}
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 8192,
	CheckOrigin: func(r *http.Request) bool {
		// Allow requests without Origin header (e.g., from native apps)
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if origin == "http://"+r.Host || origin == "https://"+r.Host {
			return true
		}
		slog.Warn("Rejected WebSocket connection from unauthorized origin", "origin", origin, "host", r.Host)
		return false
	},
}

// handleWSTranscript streams a rendered transcript as WebSocket text
// messages and closes the connection when the document is complete.
func (s *Server) handleWSTranscript(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.loadTranscript(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade to WebSocket", "error", err)
		return
	}

	err = s.render(NewWebSocketSink(conn), transportWebSocket, func(hw *htmlwriter.Writer) error {
		return s.exporter.WriteDocument(r.Context(), hw, entries)
	})
	if err != nil {
		slog.Error("Failed to stream transcript", "path", r.URL.Path, "error", err)
	}
}

// render runs fn against a document writer over sink and records metrics.
// The sink is released when render returns.
func (s *Server) render(sink io.Writer, transport string, fn func(*htmlwriter.Writer) error) error {
	counted := &countingSink{w: sink, bytes: s.metrics.bytes.WithLabelValues(transport)}
	if err := htmlwriter.With(counted, fn); err != nil {
		s.metrics.errors.WithLabelValues(transport).Inc()
		return err
	}
	s.metrics.documents.WithLabelValues(transport).Inc()
	return nil
}
