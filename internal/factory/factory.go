package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/cricketreg/internal/dependencies/clock"
	"github.com/mcoot/cricketreg/internal/dependencies/idgen"
	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/admingate"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/services/export"
	"github.com/mcoot/cricketreg/internal/services/registration"
	"github.com/mcoot/cricketreg/internal/services/roster"
	"github.com/mcoot/cricketreg/internal/storage"
	"github.com/mcoot/cricketreg/internal/storage/memory"
	redisstorage "github.com/mcoot/cricketreg/internal/storage/redis"
	"github.com/mcoot/cricketreg/internal/storage/sqlite"
	"github.com/mcoot/cricketreg/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   idgen.Generator

	// Services
	RegistrationService *registration.Service
	RosterService       *roster.Service
	ExportService       *export.Service
	AuthService         *auth.Service
	AdminGate           *admingate.Gate

	// RegistrationFeed streams new registrations to admin dashboards
	RegistrationFeed *sse.Hub

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// ExportLocation is the time zone for report timestamps (optional, defaults to UTC)
	ExportLocation *time.Location
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Create external dependencies
	clk := clock.New()
	ids := idgen.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, ids, authCfg, cfg.ExportLocation, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids idgen.Generator, authCfg auth.Config, loc *time.Location, logger *slog.Logger) *App {
	registrations := registration.New(store, clk, ids, logger)
	feed := sse.NewHub(logger)
	registrations.Subscribe(feed)
	go feed.Run()

	return &App{
		Storage:             store,
		Clock:               clk,
		IDs:                 ids,
		RegistrationService: registrations,
		RosterService:       roster.New(store, logger, roster.Config{ViewTTL: authCfg.SessionDuration}),
		ExportService:       export.New(clk, loc, logger),
		AuthService:         auth.New(store, clk, ids, logger, authCfg),
		AdminGate:           admingate.New(store, clk, logger, admingate.Config{CacheTTL: authCfg.SessionDuration}),
		RegistrationFeed:    feed,
		logger:              logger,
	}
}

// EnsureAdmin creates the user if needed and adds it to the admin allow-list
func (a *App) EnsureAdmin(ctx context.Context, username, password string) (*model.User, error) {
	user, err := a.AuthService.EnsureUser(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("error ensuring admin user: %w", err)
	}
	if err := a.Storage.AddAdmin(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("error adding %s to allow-list: %w", user.Username, err)
	}
	a.logger.Info("admin allowed", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Close disconnects live feeds and releases the storage backend if it holds connections
func (a *App) Close() error {
	a.RegistrationFeed.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
