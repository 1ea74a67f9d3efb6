// Package api exposes the valuation service over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bimrov/app"
	"bimrov/internal/logx"
)

// App represents the HTTP API application
type App struct {
	router  *chi.Mux
	service *app.ValuationService
	log     *logx.Logger
	port    string
}

// Config holds API application configuration
type Config struct {
	Port string
}

// NewApp creates a new API application around a configured service.
func NewApp(cfg Config, service *app.ValuationService) *App {
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	a := &App{
		router:  chi.NewRouter(),
		service: service,
		log:     logx.Default,
		port:    port,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Post("/api/projects/evaluate", a.handleEvaluate)
	a.router.Post("/api/projects/sensitivity", a.handleSensitivity)
	a.router.Get("/api/projects/sample", a.handleSample)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.port
	a.log.Info("starting valuation API server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the router for tests.
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.log.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	a.writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}
