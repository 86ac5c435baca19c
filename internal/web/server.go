// Package web serves a generated site for local preview.
package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/salonsite/internal/build"
	"github.com/JonMunkholm/salonsite/internal/snapshot"
	weblog "github.com/JonMunkholm/salonsite/internal/web/middleware"
)

// Options configures a Server.
type Options struct {
	Addr           string
	Root           string // Output directory to serve
	ReadTimeout    time.Duration
	IdleTimeout    time.Duration
	TrustedProxies []string

	// Snapshots backs /api/snapshot; nil disables the endpoint.
	Snapshots snapshot.Store
}

// Server is the preview HTTP server.
type Server struct {
	opts   Options
	site   fs.FS
	router *chi.Mux
	server *http.Server
}

// NewServer creates a Server over opts.Root.
func NewServer(opts Options) *Server {
	s := &Server{
		opts:   opts,
		site:   os.DirFS(opts.Root),
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:        opts.Addr,
		Handler:     s.router,
		ReadTimeout: opts.ReadTimeout,
		IdleTimeout: opts.IdleTimeout,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(weblog.TrustedRealIP(s.opts.TrustedProxies))
	s.router.Use(weblog.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/build", s.handleBuild)
	if s.opts.Snapshots != nil {
		s.router.Get("/api/snapshot", s.handleSnapshot)
	}

	files := http.FileServer(http.FS(s.site))
	s.router.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		if !s.exists(r.URL.Path) {
			s.respondError(w, r, errNotFound, http.StatusNotFound)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// exists reports whether urlPath names a file, or a directory with an
// index.html, under the site root.
func (s *Server) exists(urlPath string) bool {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}
	info, err := fs.Stat(s.site, name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = fs.Stat(s.site, path.Join(name, "index.html"))
		return err == nil
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleBuild returns the manifest of the last build.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	body, err := fs.ReadFile(s.site, build.ManifestJSON)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.respondError(w, r, errNoBuild, http.StatusNotFound)
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// SnapshotSummary describes the last saved snapshot.
type SnapshotSummary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Salons      int       `json:"salons"`
	Cities      int       `json:"cities"`
	States      int       `json:"states"`
	Categories  int       `json:"categories"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.opts.Snapshots.Load(r.Context())
	if err != nil {
		if errors.Is(err, snapshot.ErrNoSnapshot) {
			s.respondError(w, r, errNoSnapshot, http.StatusNotFound)
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %w", build.ErrSnapshot, err), http.StatusInternalServerError)
		return
	}

	ds := snap.Dataset
	writeJSON(w, SnapshotSummary{
		RunID:       snap.RunID,
		GeneratedAt: snap.GeneratedAt,
		Salons:      len(ds.Salons),
		Cities:      len(ds.Cities),
		States:      len(ds.States),
		Categories:  len(ds.Categories),
	})
}

// Start listens on Options.Addr until Shutdown. It returns
// http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	slog.Info("preview server listening", "addr", s.opts.Addr, "root", s.opts.Root)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		// Generated pages only reference their own assets
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' https: data:; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		slog.Error("json encode error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
