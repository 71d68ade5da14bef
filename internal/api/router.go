package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/openplay-go/internal/api/handler"
	"github.com/mcoot/openplay-go/internal/api/middleware"
	"github.com/mcoot/openplay-go/internal/api/sse"
	"github.com/mcoot/openplay-go/internal/metrics"
	sharedmw "github.com/mcoot/openplay-go/internal/middleware"
	"github.com/mcoot/openplay-go/internal/services/auth"
	"github.com/mcoot/openplay-go/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	SessionController *session.Controller
	HubManager        *sse.HubManager
	Metrics           *metrics.Recorder // Optional, nil disables /metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.SessionController, cfg.AuthService)
	playerHandler := handler.NewPlayerHandler(cfg.SessionController)
	courtHandler := handler.NewCourtHandler(cfg.SessionController)
	historyHandler := handler.NewHistoryHandler(cfg.SessionController)
	eventsHandler := handler.NewEventsHandler(cfg.SessionController, cfg.HubManager)

	// Create middleware
	organizerMiddleware := middleware.RequireOrganizer(cfg.AuthService)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	metricsMiddleware := sharedmw.Metrics(cfg.Metrics)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(metricsMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Public session routes
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions", sessionHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}/login", sessionHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{code}/queue", courtHandler.Queue).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}/history", historyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{code}/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Organizer routes
	organizer := api.PathPrefix("/sessions/{code}").Subrouter()
	organizer.Use(organizerMiddleware)
	organizer.HandleFunc("", sessionHandler.Delete).Methods(http.MethodDelete)
	organizer.HandleFunc("/config", sessionHandler.UpdateConfig).Methods(http.MethodPatch)
	organizer.HandleFunc("/reset", sessionHandler.Reset).Methods(http.MethodPost)
	organizer.HandleFunc("/players", playerHandler.Add).Methods(http.MethodPost)
	organizer.HandleFunc("/players/{player_id}", playerHandler.Remove).Methods(http.MethodDelete)
	organizer.HandleFunc("/queue/init", courtHandler.InitQueue).Methods(http.MethodPost)
	organizer.HandleFunc("/courts/refill", courtHandler.RefillAll).Methods(http.MethodPost)
	organizer.HandleFunc("/courts/{court}/refill", courtHandler.RefillCourt).Methods(http.MethodPost)
	organizer.HandleFunc("/courts/{court}/result", courtHandler.Result).Methods(http.MethodPost)
	organizer.HandleFunc("/courts/{court}/reset", courtHandler.ResetCourt).Methods(http.MethodPost)
	organizer.HandleFunc("/results", courtHandler.UpdateAll).Methods(http.MethodPost)

	// Prometheus exposition
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
