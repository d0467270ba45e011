package gateway

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Router builds the gateway's route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Health stays open so load balancers and probes work without a token.
	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Get("/api/providers/info", s.requireAuth(s.handleProvidersInfo))
	r.Get("/api/templates", s.requireAuth(s.handleTemplates))

	r.Post("/api/analyze/compute", s.requireAuth(s.handleAnalyze))
	r.Post("/api/analyze/storage", s.requireAuth(s.handleAnalyze))
	r.Post("/api/analyze/comprehensive", s.requireAuth(s.handleAnalyze))
	r.Get("/api/analyze/stream", s.requireAuth(s.handleAnalyzeStream))

	r.Get("/api/analysis/history", s.requireAuth(s.handleHistory))
	r.Get("/api/analysis/{id}", s.requireAuth(s.handleAnalysisByID))

	if s.cfg.Server.StaticDir != "" {
		s.mountStatic(r, s.cfg.Server.StaticDir)
	}

	return r
}

// mountStatic serves the built web UI with an SPA fallback: unknown paths
// outside /api get index.html so client-side routing works.
func (s *Server) mountStatic(r chi.Router, dir string) {
	fs := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if strings.HasPrefix(req.URL.Path, "/api/") {
			writeError(w, http.StatusNotFound, "not_found", "unknown endpoint")
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, req)
			return
		}
		http.ServeFile(w, req, index)
	})
}
