package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/cricketreg/internal/api"
	"github.com/mcoot/cricketreg/internal/config"
	"github.com/mcoot/cricketreg/internal/factory"
	"github.com/mcoot/cricketreg/internal/middleware"
	"github.com/mcoot/cricketreg/internal/scheduler"
	"github.com/mcoot/cricketreg/internal/services/auth"
	redisstorage "github.com/mcoot/cricketreg/internal/storage/redis"
	"github.com/mcoot/cricketreg/internal/web"
)

var (
	configFile string
	envFile    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cricketreg-server",
		Short: "Cricket tournament registration server",
		Long: `cricketreg-server serves the player registration form, the admin dashboard
and the JSON API.

Configuration is read from an optional YAML file, an optional .env file and
CRICKETREG_ environment variables.`,
		RunE:         runServe,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file (ignored if missing)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE:  runServe,
	})
	rootCmd.AddCommand(newAdminCmd())

	return rootCmd
}

func newAdminCmd() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin account management",
	}

	var (
		username string
		password string
		allow    bool
	)
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account and add it to the admin allow-list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			app, err := factory.New(factoryConfig(cfg, logger))
			if err != nil {
				return fmt.Errorf("failed to create application: %w", err)
			}
			defer app.Close()

			if allow {
				user, err := app.EnsureAdmin(cmd.Context(), username, password)
				if err != nil {
					return err
				}
				cmd.Printf("admin %s ready (%s)\n", user.Username, user.ID)
				return nil
			}

			user, err := app.AuthService.EnsureUser(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			cmd.Printf("user %s ready (%s), not on the allow-list\n", user.Username, user.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&username, "username", "", "Account username")
	createCmd.Flags().StringVar(&password, "password", "", "Account password")
	createCmd.Flags().BoolVar(&allow, "allow", true, "Add the account to the admin allow-list")
	_ = createCmd.MarkFlagRequired("username")
	_ = createCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(createCmd)
	return adminCmd
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return nil, nil, err
	}

	level, _ := cfg.LogLevel()
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// factoryConfig builds factory config from the loaded configuration
func factoryConfig(cfg *config.Config, logger *slog.Logger) factory.Config {
	loc, _ := cfg.Location()
	fc := factory.Config{
		AuthConfig:     auth.Config{SessionDuration: cfg.Auth.SessionDuration},
		Logger:         logger,
		StorageType:    cfg.Storage.Type,
		SQLitePath:     cfg.SQLite.Path,
		ExportLocation: loc,
	}

	// Configure Redis if storage type is redis
	if cfg.Storage.Type == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Redis.URL
		if cfg.Redis.PoolSize > 0 {
			redisCfg.PoolSize = cfg.Redis.PoolSize
		}
		fc.RedisConfig = &redisCfg
	}
	return fc
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	// Create application factory
	app, err := factory.New(factoryConfig(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return err
	}
	defer app.Close()

	if cfg.HasBootstrapAdmin() {
		if _, err := app.EnsureAdmin(cmd.Context(), cfg.BootstrapAdmin.Username, cfg.BootstrapAdmin.Password); err != nil {
			logger.Error("failed to create bootstrap admin", slog.String("error", err.Error()))
			return err
		}
		logger.Info("bootstrap admin ready", slog.String("username", cfg.BootstrapAdmin.Username))
	}

	// Background jobs
	sched, err := scheduler.New(logger)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := sched.RegisterSessionSweep(app.AuthService, cfg.Scheduler.SessionSweepInterval); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			logger.Warn("scheduler stop failed", slog.String("error", err.Error()))
		}
	}()

	// Find static files directory
	staticDir := cfg.Web.StaticDir
	if staticDir == "" {
		staticDir = findStaticDir()
	}

	// Create API router
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		RegistrationService: app.RegistrationService,
		RosterService:       app.RosterService,
		ExportService:       app.ExportService,
		AuthService:         app.AuthService,
		AdminGate:           app.AdminGate,
	})

	// Create web router
	webRouter := web.NewRouter(web.RouterConfig{
		Logger:              logger,
		RegistrationService: app.RegistrationService,
		RosterService:       app.RosterService,
		ExportService:       app.ExportService,
		AuthService:         app.AuthService,
		AdminGate:           app.AdminGate,
		RegistrationFeed:    app.RegistrationFeed,
		StaticDir:           staticDir,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	// Create server
	server := api.NewServer(middleware.RequestID(app.IDs)(mux), api.ServerConfigFrom(cfg.Server), logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage.Type),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		// Streaming dashboards hold their connections open until the feed closes
		app.RegistrationFeed.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}

// findStaticDir looks for the static files directory
func findStaticDir() string {
	// Try common locations
	candidates := []string{
		"internal/web/static",
		"./internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}

	// Default to relative path
	return "internal/web/static"
}
