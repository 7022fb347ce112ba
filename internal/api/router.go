package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cricketreg/internal/api/handler"
	"github.com/mcoot/cricketreg/internal/api/middleware"
	"github.com/mcoot/cricketreg/internal/api/response"
	"github.com/mcoot/cricketreg/internal/services/admingate"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/services/export"
	"github.com/mcoot/cricketreg/internal/services/registration"
	"github.com/mcoot/cricketreg/internal/services/roster"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger              *slog.Logger
	RegistrationService *registration.Service
	RosterService       *roster.Service
	ExportService       *export.Service
	AuthService         *auth.Service
	AdminGate           *admingate.Gate
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	registrationHandler := handler.NewRegistrationHandler(cfg.RegistrationService)
	adminHandler := handler.NewAdminHandler(cfg.AuthService, cfg.AdminGate, cfg.RosterService)
	playersHandler := handler.NewPlayersHandler(cfg.RosterService, cfg.ExportService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	adminMiddleware := middleware.RequireAdmin(cfg.AdminGate)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/registrations", registrationHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)

	// Session routes
	session := api.PathPrefix("/admin").Subrouter()
	session.Use(authMiddleware)
	session.HandleFunc("/logout", adminHandler.Logout).Methods(http.MethodPost)
	session.HandleFunc("/me", adminHandler.GetMe).Methods(http.MethodGet)

	// Admin routes (session on the allow-list)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMiddleware)
	admin.Use(adminMiddleware)
	admin.HandleFunc("/players", playersHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/players/stats", playersHandler.Stats).Methods(http.MethodGet)
	admin.HandleFunc("/players/export", playersHandler.Export).Methods(http.MethodGet)
	admin.HandleFunc("/registrations/{id}", registrationHandler.Get).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
