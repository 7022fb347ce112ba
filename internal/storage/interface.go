package storage

import (
	"context"

	"github.com/mcoot/cricketreg/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Registration operations
	// SaveRegistration appends a new registration; an existing ID is never overwritten
	SaveRegistration(ctx context.Context, reg *model.PlayerRegistration) error
	GetRegistration(ctx context.Context, id model.RegistrationID) (*model.PlayerRegistration, error)
	// ListRegistrations returns registrations newest first, scoped to a league when league is non-empty
	ListRegistrations(ctx context.Context, league model.League) ([]*model.PlayerRegistration, error)

	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Admin allow-list operations
	AddAdmin(ctx context.Context, id model.UserID) error
	RemoveAdmin(ctx context.Context, id model.UserID) error
	IsAdmin(ctx context.Context, id model.UserID) (bool, error)
}
