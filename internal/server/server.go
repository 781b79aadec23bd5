// Package server provides the HTTP status API for the AR SDK binding.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/nvar/internal/detector"
	"github.com/ayusman/nvar/internal/nvar"
	"github.com/ayusman/nvar/internal/server/api"
	"github.com/ayusman/nvar/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store

	// Library loads the SDK. Defaults to nvar.Shared.
	Library func() (*nvar.Library, error)

	// Detector configures the feature handles created by probes.
	Detector detector.Config
}

// Server represents the HTTP server for the status API.
type Server struct {
	config Config
	mux    *http.ServeMux
	events *EventsHandler
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Library == nil {
		config.Library = nvar.Shared
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		events: NewEventsHandler(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/sdk", api.NewSDKHandler(s.config.Library))
	s.mux.HandleFunc("/api/features", api.FeaturesHandler)
	s.mux.Handle("/api/events", s.events)

	// Register probe API handler if Store is configured
	if s.config.Store != nil {
		probeHandler := api.NewProbeHandler(s.config.Store, s.config.Library, s.config.Detector, s.events.Publish)
		s.mux.Handle("/api/probes", probeHandler)
		s.mux.Handle("/api/probes/", probeHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Events returns the WebSocket event hub.
func (s *Server) Events() *EventsHandler {
	return s.events
}

// Close releases the event hub. ListenAndServe calls it on return.
func (s *Server) Close() {
	s.events.Close()
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on addr and shuts it down when ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
