// Package admingate decides whether an authenticated session may use the admin area
package admingate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/mcoot/cricketreg/internal/dependencies/clock"
	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/storage"
)

// Errors
var (
	ErrUnauthenticated      = errors.New("not signed in")
	ErrNotAdmin             = errors.New("not an authorized admin")
	ErrAllowListUnavailable = errors.New("admin allow-list unavailable")
)

// Access is the resolved admin context for one session
// Handlers receive it explicitly instead of reading global auth state
type Access struct {
	Session  *auth.Session
	Identity model.AdminIdentity
}

// Gate checks sessions against the admin allow-list
type Gate struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	cache   *gocache.Cache
	lookups singleflight.Group // concurrent allow-list reads per user share one storage call
}

// Config holds configuration for the gate
type Config struct {
	// CacheTTL bounds how long a positive check is remembered for a session
	CacheTTL time.Duration
}

// DefaultConfig returns default gate configuration
func DefaultConfig() Config {
	return Config{CacheTTL: auth.DefaultConfig().SessionDuration}
}

// New creates a new Gate
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger, cfg Config) *Gate {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	return &Gate{
		storage: storage,
		clock:   clock,
		logger:  logger,
		cache:   gocache.New(cfg.CacheTTL, cfg.CacheTTL/2),
	}
}

// Check resolves the admin access of session
// Only positive results are cached; denials and failures are re-checked next time
func (g *Gate) Check(ctx context.Context, session *auth.Session) (Access, error) {
	if session == nil {
		return Access{}, ErrUnauthenticated
	}

	if cached, ok := g.cache.Get(session.Token); ok {
		if access, ok := cached.(Access); ok {
			return access, nil
		}
	}

	// Shared by coalesced callers, so not bound to this caller's cancellation
	lookupCtx := context.WithoutCancel(ctx)
	result, err, _ := g.lookups.Do(string(session.UserID), func() (any, error) {
		return g.storage.IsAdmin(lookupCtx, session.UserID)
	})
	if err != nil {
		g.logger.Error("admin allow-list check failed", "user_id", session.UserID, "error", err)
		return Access{}, fmt.Errorf("%w: %w", ErrAllowListUnavailable, err)
	}
	if isAdmin, _ := result.(bool); !isAdmin {
		g.logger.Warn("non-admin denied", "user_id", session.UserID, "username", session.Username)
		return Access{}, ErrNotAdmin
	}

	access := Access{
		Session: session,
		Identity: model.AdminIdentity{
			UserID:   session.UserID,
			Username: session.Username,
			IsAdmin:  true,
		},
	}
	ttl := session.ExpiresAt.Sub(g.clock.Now())
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	g.cache.Set(session.Token, access, ttl)
	return access, nil
}

// Forget drops any cached result for a session token
func (g *Gate) Forget(token string) {
	g.cache.Delete(token)
}
