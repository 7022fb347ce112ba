package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	registrations map[model.RegistrationID]*model.PlayerRegistration
	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	admins        map[model.UserID]struct{}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		registrations: make(map[model.RegistrationID]*model.PlayerRegistration),
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		admins:        make(map[model.UserID]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Registration operations

func (s *Storage) SaveRegistration(ctx context.Context, reg *model.PlayerRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[reg.ID]; ok {
		return model.ErrRegistrationExists
	}
	stored := *reg
	s.registrations[reg.ID] = &stored
	return nil
}

func (s *Storage) GetRegistration(ctx context.Context, id model.RegistrationID) (*model.PlayerRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, model.ErrRegistrationNotFound
	}
	result := *reg
	return &result, nil
}

func (s *Storage) ListRegistrations(ctx context.Context, league model.League) ([]*model.PlayerRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.PlayerRegistration, 0, len(s.registrations))
	for _, reg := range s.registrations {
		if league != "" && reg.League != league {
			continue
		}
		copied := *reg
		result = append(result, &copied)
	}
	sortNewestFirst(result)
	return result, nil
}

// sortNewestFirst orders by creation time descending, ID breaking ties
func sortNewestFirst(regs []*model.PlayerRegistration) {
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].CreatedAt.Equal(regs[j].CreatedAt) {
			return regs[i].ID > regs[j].ID
		}
		return regs[i].CreatedAt.After(regs[j].CreatedAt)
	})
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.usernameIndex[user.Username]; ok && existing != user.ID {
		return model.ErrUserExists
	}
	stored := *user
	s.users[user.ID] = &stored
	s.usernameIndex[user.Username] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

// Admin allow-list operations

func (s *Storage) AddAdmin(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[id] = struct{}{}
	return nil
}

func (s *Storage) RemoveAdmin(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.admins, id)
	return nil
}

func (s *Storage) IsAdmin(ctx context.Context, id model.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[id]
	return ok, nil
}
