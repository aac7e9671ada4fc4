// Package web provides the HTTP API and HTML report pages.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/licscan/internal/config"
	"github.com/JonMunkholm/licscan/internal/core"
	mw "github.com/JonMunkholm/licscan/internal/web/middleware"
)

// Server is the HTTP server for the license scan service.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server with all routes mounted.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(securityHeaders)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	// Imports run under the service's own import timeout.
	s.router.Group(func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))
		r.Post("/api/scans/{scanID}/import", s.handleImport)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

		r.Get("/scans/{scanID}", s.handleScanPage)

		r.Route("/api", func(r chi.Router) {
			r.Use(mw.APIKeyAuth(&s.cfg.Security))

			r.Get("/scans/{scanID}/report", s.handleScanReport)
			r.Get("/imports/status", s.handleImportStatus)

			r.Get("/categories", s.handleListCategories)
			r.Post("/categories", s.handleAddCategory)
			r.Get("/licenses", s.handleListLicenses)
			r.Post("/licenses", s.handleAddLicense)
			r.Get("/conversions", s.handleListConversions)
			r.Post("/conversions", s.handleAddConversion)

			r.Get("/config/{key}", s.handleGetConfig)
			r.Put("/config/{key}", s.handleSetConfig)

			r.Post("/projects", s.handleAddProject)
			r.Post("/projects/{projectID}/subprojects", s.handleAddSubproject)
			r.Post("/subprojects/{subprojectID}/scans", s.handleAddScan)
		})
	})
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
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
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
