package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cricketreg/internal/services/admingate"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/services/export"
	"github.com/mcoot/cricketreg/internal/services/registration"
	"github.com/mcoot/cricketreg/internal/services/roster"
	"github.com/mcoot/cricketreg/internal/web/handler"
	"github.com/mcoot/cricketreg/internal/web/middleware"
	"github.com/mcoot/cricketreg/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger              *slog.Logger
	RegistrationService *registration.Service
	RosterService       *roster.Service
	ExportService       *export.Service
	AuthService         *auth.Service
	AdminGate           *admingate.Gate
	RegistrationFeed    *sse.Hub // optional; enables live dashboard updates
	StaticDir           string   // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	sessionMiddleware := middleware.Session(cfg.AuthService)
	adminMiddleware := middleware.RequireAdmin(cfg.AdminGate, cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	registerHandler := handler.NewRegisterHandler(cfg.RegistrationService, cfg.Logger)
	adminHandler := handler.NewAdminHandler(cfg.AuthService, cfg.AdminGate, cfg.RosterService, cfg.ExportService, cfg.RegistrationFeed, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/register", registerHandler.Form).Methods(http.MethodGet)
	public.HandleFunc("/register", registerHandler.Submit).Methods(http.MethodPost)
	public.HandleFunc("/registration-success", registerHandler.Success).Methods(http.MethodGet)

	// Sign-in routes (session optional)
	signIn := r.NewRoute().Subrouter()
	signIn.Use(flashMiddleware)
	signIn.Use(sessionMiddleware)
	signIn.HandleFunc("/admin", adminHandler.LoginPage).Methods(http.MethodGet)
	signIn.HandleFunc("/admin/login", adminHandler.Login).Methods(http.MethodPost)
	signIn.HandleFunc("/admin/logout", adminHandler.Logout).Methods(http.MethodPost)

	// Admin routes (session on the allow-list)
	admin := r.PathPrefix("/admin/dashboard").Subrouter()
	admin.Use(flashMiddleware)
	admin.Use(sessionMiddleware)
	admin.Use(adminMiddleware)
	admin.HandleFunc("", adminHandler.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/export", adminHandler.Export).Methods(http.MethodGet)
	admin.HandleFunc("/events", adminHandler.Events).Methods(http.MethodGet)

	// Catch-all
	r.NotFoundHandler = recoveryMiddleware(loggingMiddleware(http.HandlerFunc(homeHandler.NotFound)))

	return r
}
