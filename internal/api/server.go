// Package api serves canon navigation and the reader's state over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/daily"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/gesture"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/logging"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/plans"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/server"
	"github.com/FocuswithJustin/MiAlmaBiblia/internal/state"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	cfg     Config
	store   *state.Store
	tracker *plans.Tracker
	daily   *daily.Picker
	hub     *Hub
	started time.Time
}

// New creates a server. Call Hub().Run before serving websocket clients,
// or use ListenAndServe which does it.
func New(cfg Config, store *state.Store, tracker *plans.Tracker, picker *daily.Picker) *Server {
	if cfg.Gesture == (gesture.Config{}) {
		cfg.Gesture = gesture.DefaultConfig()
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		tracker: tracker,
		daily:   picker,
		hub:     NewHub(),
		started: time.Now(),
	}
}

// Hub returns the websocket hub that broadcasts position changes.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the routed handler wrapped in the middleware chain:
// logging outermost, then CORS, then security headers.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = server.SecurityHeadersWithCSP(server.APICSPConfig(), s.routes())

	handler = server.CORSMiddleware(server.CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}, handler)
	if len(s.cfg.AllowedOrigins) > 0 {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(s.cfg.AllowedOrigins))
	} else {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "permissive",
			"note", "allowing all origins (*)")
	}

	return logging.CombinedMiddleware(handler)
}

// ListenAndServe runs the hub and the HTTP server until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hubCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logging.ServerStartup("rest_api", "http", s.cfg.Port, "websocket_protocol", "ws")

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		logging.Info("shutting down", "reason", ctx.Err())
		return srv.Shutdown(shutdownCtx)
	}
}

// routes configures all HTTP routes.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /books", s.handleBooks)
	mux.HandleFunc("GET /books/{name}", s.handleBook)
	mux.HandleFunc("GET /navigate", s.handleNavigate)
	mux.HandleFunc("GET /swipe", s.handleSwipe)
	mux.HandleFunc("GET /refs", s.handleRef)

	mux.HandleFunc("GET /last-read", s.handleGetLastRead)
	mux.HandleFunc("PUT /last-read", s.handlePutLastRead)
	mux.HandleFunc("GET /favorites", s.handleFavorites)
	mux.HandleFunc("POST /favorites", s.handleAddFavorite)
	mux.HandleFunc("DELETE /favorites/{key}", s.handleRemoveFavorite)
	mux.HandleFunc("GET /highlights", s.handleHighlights)
	mux.HandleFunc("PUT /highlights", s.handleSetHighlight)
	mux.HandleFunc("DELETE /highlights", s.handleClearHighlight)
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings", s.handlePutSettings)

	mux.HandleFunc("GET /plans", s.handlePlans)
	mux.HandleFunc("GET /plans/{id}", s.handlePlan)
	mux.HandleFunc("POST /plans/{id}/{action}", s.handlePlanAction)
	mux.HandleFunc("GET /daily", s.handleDaily)

	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return mux
}
