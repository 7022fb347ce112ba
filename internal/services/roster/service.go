package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/storage"
)

// Errors
var (
	ErrRosterUnavailable = errors.New("roster could not be loaded")
	ErrSuperseded        = errors.New("roster load superseded by a newer request")
)

// Result is one filtered roster load
type Result struct {
	Criteria  Criteria
	Partition model.League
	Players   []*model.PlayerRegistration // filtered, newest first
	Total     int                         // players in the partition before filtering
	Stats     Stats                       // over the unfiltered partition
}

// Service loads rosters through per-session views
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
	views   *gocache.Cache
}

// Config holds configuration for the roster service
type Config struct {
	// ViewTTL is how long an idle session's view is kept
	ViewTTL time.Duration
}

// DefaultConfig returns default roster configuration
func DefaultConfig() Config {
	return Config{ViewTTL: 24 * time.Hour}
}

// New creates a new roster Service
func New(storage storage.Storage, logger *slog.Logger, cfg Config) *Service {
	if cfg.ViewTTL == 0 {
		cfg.ViewTTL = DefaultConfig().ViewTTL
	}
	return &Service{
		storage: storage,
		logger:  logger,
		views:   gocache.New(cfg.ViewTTL, cfg.ViewTTL/2),
	}
}

// ViewFor returns the view for a session key, creating it if needed
func (s *Service) ViewFor(key string) *View {
	if v, ok := s.views.Get(key); ok {
		if view, ok := v.(*View); ok {
			return view
		}
	}
	view := NewView()
	if err := s.views.Add(key, view, gocache.DefaultExpiration); err != nil {
		// Lost a race with another request for the same session
		if v, ok := s.views.Get(key); ok {
			if existing, ok := v.(*View); ok {
				return existing
			}
		}
	}
	return view
}

// Forget drops the view for a session key
func (s *Service) Forget(key string) {
	s.views.Delete(key)
}

// Load reads the partition selected by c from storage into the session's view
// and returns the filtered result
// A load that finishes after a newer one began for the same session returns ErrSuperseded
func (s *Service) Load(ctx context.Context, key string, c Criteria) (*Result, error) {
	view := s.ViewFor(key)
	partition := c.Partition()
	token := view.Begin(partition)

	var players []*model.PlayerRegistration
	if partition == "" || partition.Valid() {
		var err error
		players, err = s.storage.ListRegistrations(ctx, partition)
		if err != nil {
			view.Fail(token, err)
			s.logger.Error("failed to load roster", "league", partition, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrRosterUnavailable, err)
		}
	}

	if !view.Resolve(token, players) {
		s.logger.Debug("discarded stale roster load", "league", partition, "token", token)
		return nil, ErrSuperseded
	}

	return newResult(c, partition, players), nil
}

// Settled returns the session view's last loaded roster filtered by c
// It reports false unless the view is ready and holds the partition c selects
func (s *Service) Settled(key string, c Criteria) (*Result, bool) {
	cached, ok := s.views.Get(key)
	if !ok {
		return nil, false
	}
	view, ok := cached.(*View)
	if !ok {
		return nil, false
	}
	snap := view.Snapshot()
	partition := c.Partition()
	if snap.State != StateReady || snap.League != partition {
		return nil, false
	}
	return newResult(c, partition, snap.Players), true
}

func newResult(c Criteria, partition model.League, players []*model.PlayerRegistration) *Result {
	return &Result{
		Criteria:  c,
		Partition: partition,
		Players:   Filter(players, c),
		Total:     len(players),
		Stats:     ComputeStats(players),
	}
}
