package httpapi

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dasolkim7/speaker-diarization/internal/pipeline"
)

//go:embed web
var embeddedUI embed.FS

type pipelineRunner interface {
	Run(ctx context.Context, in pipeline.Input, observe pipeline.Observer) (*pipeline.Report, error)
}

type Server struct {
	runner  pipelineRunner
	catalog Catalog

	uiEnabled   bool
	uiStaticDir string
	uiFS        fs.FS

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

// WithUI toggles the page. A non-empty staticDir replaces the built-in page
// with files served from disk.
func WithUI(staticDir string, enabled bool) Option {
	return func(s *Server) {
		s.uiStaticDir = staticDir
		s.uiEnabled = enabled
	}
}

// WithCatalog sets what /api/options reports.
func WithCatalog(c Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

func NewServer(runner pipelineRunner, opts ...Option) *Server {
	uiFS, _ := fs.Sub(embeddedUI, "web")
	s := &Server{
		runner:    runner,
		uiEnabled: true,
		uiFS:      uiFS,
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/run", s.handleRun)
	s.mux.HandleFunc("/api/run/stream", s.handleRunStream)
	s.mux.HandleFunc("/api/options", s.handleOptions)
	s.mux.HandleFunc("/api/healthz", s.handleHealthz)
	s.mux.HandleFunc("/", s.handleStatic)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if !s.uiEnabled {
		http.NotFound(w, r)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if s.uiStaticDir == "" {
		s.serveEmbedded(w, r)
		return
	}

	rel := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	indexPath := filepath.Join(s.uiStaticDir, "index.html")

	if rel == "" || !strings.Contains(filepath.Base(rel), ".") {
		http.ServeFile(w, r, indexPath)
		return
	}

	filePath := filepath.Join(s.uiStaticDir, rel)
	if _, err := os.Stat(filePath); err != nil {
		// SPA fallback: non-existing static file path returns index
		http.ServeFile(w, r, indexPath)
		return
	}
	http.ServeFile(w, r, filePath)
}

func (s *Server) serveEmbedded(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if rel == "" || rel == "." || !strings.Contains(path.Base(rel), ".") {
		rel = "index.html"
	}
	if _, err := fs.Stat(s.uiFS, rel); err != nil {
		rel = "index.html"
	}
	http.ServeFileFS(w, r, s.uiFS, rel)
}
