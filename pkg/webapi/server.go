// Package webapi provides the HTTP API for the skills catalog: skill and
// repository listings, category facets, and an authenticated sync trigger.
package webapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/schwepps/skills-store/pkg/logger"
	"github.com/schwepps/skills-store/pkg/presenter"
	"github.com/schwepps/skills-store/pkg/store"
	"github.com/schwepps/skills-store/pkg/sync"
)

// Syncer triggers catalog syncs. Satisfied by *sync.Service.
type Syncer interface {
	SyncAll(ctx context.Context) (*sync.Report, error)
	SyncOne(ctx context.Context, owner, repo string) (sync.Result, error)
}

// Server serves the catalog API.
type Server struct {
	router *mux.Router
	store  *store.Store
	syncer Syncer
	config *ServerConfig
	server *http.Server
}

// ServerConfig holds the configuration for the API server.
type ServerConfig struct {
	Host string
	Port int
	// SyncSecret authorizes POST /api/sync. When empty the endpoint is
	// disabled.
	SyncSecret string
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// NewServer creates the API server.
func NewServer(st *store.Store, syncer Syncer, config *ServerConfig) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	s := &Server{
		router: mux.NewRouter(),
		store:  st,
		syncer: syncer,
		config: config,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all the HTTP routes
func (s *Server) setupRoutes() {
	// OPTIONS is registered alongside each real method so preflight
	// requests match a route; mux only runs middleware on matched routes,
	// and corsMiddleware answers the preflight before the handler runs.
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/skills", s.handleListSkills).Methods("GET", "OPTIONS")
	api.HandleFunc("/skills/{owner}/{repo}/{skill}", s.handleGetSkill).Methods("GET", "OPTIONS")
	api.HandleFunc("/repos", s.handleListRepos).Methods("GET", "OPTIONS")
	api.HandleFunc("/repos/{owner}/{repo}", s.handleGetRepo).Methods("GET", "OPTIONS")
	api.HandleFunc("/categories", s.handleCategories).Methods("GET", "OPTIONS")
	api.HandleFunc("/sync", s.handleTriggerSync).Methods("POST", "OPTIONS")
	api.HandleFunc("/sync/status", s.handleSyncStatus).Methods("GET", "OPTIONS")
	api.HandleFunc("/health", s.handleHealth).Methods("GET", "OPTIONS")

	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		logger.G(r.Context()).WithFields(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration":    duration,
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Sync-Secret")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
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

// syncAuthorized checks the sync secret on a request. The secret may be
// sent as a bearer token or in X-Sync-Secret.
func (s *Server) syncAuthorized(r *http.Request) bool {
	if s.config.SyncSecret == "" {
		return false
	}

	candidate := r.Header.Get("X-Sync-Secret")
	if auth := r.Header.Get("Authorization"); candidate == "" && strings.HasPrefix(auth, "Bearer ") {
		candidate = strings.TrimPrefix(auth, "Bearer ")
	}

	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.config.SyncSecret)) == 1
}

// writeJSONResponse writes a JSON response
func (s *Server) writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.G(context.TODO()).WithError(err).Error("failed to encode JSON response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes an error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		logger.G(context.TODO()).WithError(err).Error(message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]any{
		"error":   message,
		"status":  statusCode,
		"success": false,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.G(context.TODO()).WithError(err).Error("failed to encode error response")
	}
}

// Start starts the API server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:    address,
		Handler: s.router,
	}

	presenter.Info(fmt.Sprintf("Starting API server on http://%s", address))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.G(ctx).WithError(err).Error("API server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Stop stops the API server.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
