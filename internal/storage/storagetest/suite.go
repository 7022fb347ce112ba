// Package storagetest holds a behaviour suite shared by every storage backend
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/storage"
)

// Suite exercises the storage.Storage contract
// Backends embed it and assign Storage in SetupTest
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC)

// NewRegistration builds a valid men's registration created offset after a fixed base time
func NewRegistration(id string, league model.League, offset time.Duration) *model.PlayerRegistration {
	return &model.PlayerRegistration{
		ID:             model.RegistrationID(id),
		League:         league,
		RegistrantName: "Ravi Kumar",
		RegistrantCode: 1042,
		PlayerName:     "ravi kumar",
		Relationship:   model.RelationshipSelf,
		DateOfBirth:    time.Date(1990, time.May, 4, 0, 0, 0, 0, time.UTC),
		ContactNumber:  "9876543210",
		Profile:        model.ProfileBatter,
		BattingStyle:   model.BattingRight,
		Availability:   model.Availability{Jan10: true, Jan18: true},
		CreatedAt:      baseTime.Add(offset),
	}
}

// Registration tests

func (s *Suite) TestSaveAndGetRegistration() {
	reg := NewRegistration("reg-1", model.LeagueMen, 0)
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, reg))

	got, err := s.Storage.GetRegistration(s.Ctx, "reg-1")
	s.Require().NoError(err)
	s.Equal(reg.ID, got.ID)
	s.Equal(reg.PlayerName, got.PlayerName)
	s.Equal(reg.Profile, got.Profile)
	s.Equal(reg.BattingStyle, got.BattingStyle)
	s.Empty(got.BowlingStyle)
	s.Equal(reg.Availability, got.Availability)
	s.True(reg.DateOfBirth.Equal(got.DateOfBirth))
	s.True(reg.CreatedAt.Equal(got.CreatedAt))
}

func (s *Suite) TestGetRegistrationNotFound() {
	_, err := s.Storage.GetRegistration(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrRegistrationNotFound)
}

func (s *Suite) TestSaveRegistrationRefusesOverwrite() {
	reg := NewRegistration("reg-1", model.LeagueMen, 0)
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, reg))

	replacement := NewRegistration("reg-1", model.LeagueMen, time.Hour)
	replacement.PlayerName = "someone else"
	err := s.Storage.SaveRegistration(s.Ctx, replacement)
	s.ErrorIs(err, model.ErrRegistrationExists)

	got, err := s.Storage.GetRegistration(s.Ctx, "reg-1")
	s.Require().NoError(err)
	s.Equal("ravi kumar", got.PlayerName)
}

func (s *Suite) TestListRegistrationsEmpty() {
	regs, err := s.Storage.ListRegistrations(s.Ctx, "")
	s.Require().NoError(err)
	s.Empty(regs)
}

func (s *Suite) TestListRegistrationsNewestFirst() {
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, NewRegistration("reg-a", model.LeagueMen, time.Minute)))
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, NewRegistration("reg-b", model.LeagueWomen, 3*time.Minute)))
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, NewRegistration("reg-c", model.LeagueMen, 2*time.Minute)))

	regs, err := s.Storage.ListRegistrations(s.Ctx, "")
	s.Require().NoError(err)
	s.Require().Len(regs, 3)
	s.Equal(model.RegistrationID("reg-b"), regs[0].ID)
	s.Equal(model.RegistrationID("reg-c"), regs[1].ID)
	s.Equal(model.RegistrationID("reg-a"), regs[2].ID)
}

func (s *Suite) TestListRegistrationsByLeague() {
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, NewRegistration("reg-a", model.LeagueMen, time.Minute)))
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, NewRegistration("reg-b", model.LeagueWomen, 2*time.Minute)))
	s.Require().NoError(s.Storage.SaveRegistration(s.Ctx, NewRegistration("reg-c", model.LeagueMen, 3*time.Minute)))

	men, err := s.Storage.ListRegistrations(s.Ctx, model.LeagueMen)
	s.Require().NoError(err)
	s.Require().Len(men, 2)
	s.Equal(model.RegistrationID("reg-c"), men[0].ID)
	s.Equal(model.RegistrationID("reg-a"), men[1].ID)

	women, err := s.Storage.ListRegistrations(s.Ctx, model.LeagueWomen)
	s.Require().NoError(err)
	s.Require().Len(women, 1)
	s.Equal(model.RegistrationID("reg-b"), women[0].ID)
}

// User tests

func (s *Suite) TestSaveAndGetUser() {
	user := &model.User{ID: "user-1", Username: "organiser", PasswordHash: "hash", CreatedAt: baseTime}
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, user))

	got, err := s.Storage.GetUser(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("organiser", got.Username)
	s.Equal("hash", got.PasswordHash)

	byName, err := s.Storage.GetUserByUsername(s.Ctx, "organiser")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), byName.ID)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.Storage.GetUser(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.Storage.GetUserByUsername(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *Suite) TestSaveUserDuplicateUsername() {
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, &model.User{ID: "user-1", Username: "organiser", CreatedAt: baseTime}))

	err := s.Storage.SaveUser(s.Ctx, &model.User{ID: "user-2", Username: "organiser", CreatedAt: baseTime})
	s.ErrorIs(err, model.ErrUserExists)
}

func (s *Suite) TestSaveUserUpdatesExisting() {
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, &model.User{ID: "user-1", Username: "organiser", PasswordHash: "old", CreatedAt: baseTime}))
	s.Require().NoError(s.Storage.SaveUser(s.Ctx, &model.User{ID: "user-1", Username: "organiser", PasswordHash: "new", CreatedAt: baseTime}))

	got, err := s.Storage.GetUser(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("new", got.PasswordHash)
}

// Admin allow-list tests

func (s *Suite) TestAdminAllowList() {
	isAdmin, err := s.Storage.IsAdmin(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.False(isAdmin)

	s.Require().NoError(s.Storage.AddAdmin(s.Ctx, "user-1"))
	isAdmin, err = s.Storage.IsAdmin(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.True(isAdmin)

	// Adding twice is harmless
	s.Require().NoError(s.Storage.AddAdmin(s.Ctx, "user-1"))

	s.Require().NoError(s.Storage.RemoveAdmin(s.Ctx, "user-1"))
	isAdmin, err = s.Storage.IsAdmin(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.False(isAdmin)
}
