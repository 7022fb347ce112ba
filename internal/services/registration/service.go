package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/cricketreg/internal/dependencies/clock"
	"github.com/mcoot/cricketreg/internal/dependencies/idgen"
	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/validation"
	"github.com/mcoot/cricketreg/internal/storage"
)

// ErrSubmissionFailed wraps persistence failures during a submission
var ErrSubmissionFailed = errors.New("registration could not be saved")

// Listener is told about each registration after it is stored
type Listener interface {
	Registered(reg *model.PlayerRegistration)
}

// Service accepts player registrations
type Service struct {
	storage   storage.Storage
	clock     clock.Clock
	ids       idgen.Generator
	logger    *slog.Logger
	listeners []Listener
}

// New creates a new registration Service
func New(storage storage.Storage, clock clock.Clock, ids idgen.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger,
	}
}

// Subscribe adds a listener for stored registrations
// Listeners must be added before the service handles requests and must not block
func (s *Service) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Submit validates the candidate and, when it passes, appends it to storage
// A validation failure is returned as *validation.Errors and storage is not touched
func (s *Service) Submit(ctx context.Context, c validation.Candidate) (*model.PlayerRegistration, error) {
	now := s.clock.Now()

	reg, verrs := validation.Validate(c, now)
	if verrs != nil {
		s.logger.Debug("registration rejected", "fields", verrs.Names())
		return nil, verrs
	}

	reg.ID = model.RegistrationID(s.ids.NewID())
	reg.CreatedAt = now

	if err := s.storage.SaveRegistration(ctx, reg); err != nil {
		s.logger.Error("failed to save registration",
			"registration_id", reg.ID,
			"league", reg.League,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	s.logger.Info("player registered",
		"registration_id", reg.ID,
		"league", reg.League,
		"profile", reg.Profile,
		"relationship", reg.Relationship,
	)
	for _, l := range s.listeners {
		l.Registered(reg)
	}
	return reg, nil
}

// Get returns a stored registration by ID
func (s *Service) Get(ctx context.Context, id model.RegistrationID) (*model.PlayerRegistration, error) {
	return s.storage.GetRegistration(ctx, id)
}
