package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	path    string
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "data", "cricketreg.db")

	store, err := New(s.path)
	s.Require().NoError(err)

	s.storage = store
	s.Storage = store
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) TestReopenKeepsDataAndSkipsAppliedMigrations() {
	reg := storagetest.NewRegistration("reg-1", model.LeagueWomen, 0)
	reg.Relationship = model.RelationshipWard
	reg.Profile = model.ProfileWicketKeeper
	reg.BowlingStyle = model.BowlingLeftSpin
	reg.Availability = model.Availability{}
	s.Require().NoError(s.storage.SaveRegistration(s.Ctx, reg))
	s.Require().NoError(s.storage.AddAdmin(s.Ctx, "user-1"))
	s.Require().NoError(s.storage.Close())

	reopened, err := New(s.path)
	s.Require().NoError(err)
	s.storage = reopened

	got, err := reopened.GetRegistration(s.Ctx, "reg-1")
	s.Require().NoError(err)
	s.Equal(model.RelationshipWard, got.Relationship)
	s.Equal(model.ProfileWicketKeeper, got.Profile)
	s.Equal(model.BowlingLeftSpin, got.BowlingStyle)
	s.Equal("1990-05-04", got.DateOfBirth.Format(model.DateLayout))

	isAdmin, err := reopened.IsAdmin(s.Ctx, "user-1")
	s.Require().NoError(err)
	s.True(isAdmin)
}
