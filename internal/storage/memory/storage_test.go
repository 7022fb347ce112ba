package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestReturnedRegistrationIsACopy() {
	reg := storagetest.NewRegistration("reg-1", model.LeagueMen, 0)
	s.Require().NoError(s.storage.SaveRegistration(s.Ctx, reg))

	// Mutating the caller's value must not reach the stored one
	reg.PlayerName = "mutated"
	got, err := s.storage.GetRegistration(s.Ctx, "reg-1")
	s.Require().NoError(err)
	s.Equal("ravi kumar", got.PlayerName)

	got.PlayerName = "mutated again"
	list, err := s.storage.ListRegistrations(s.Ctx, "")
	s.Require().NoError(err)
	s.Equal("ravi kumar", list[0].PlayerName)
}

func (s *StorageSuite) TestListTieBreaksOnID() {
	s.Require().NoError(s.storage.SaveRegistration(s.Ctx, storagetest.NewRegistration("reg-a", model.LeagueMen, 0)))
	s.Require().NoError(s.storage.SaveRegistration(s.Ctx, storagetest.NewRegistration("reg-b", model.LeagueMen, 0)))

	list, err := s.storage.ListRegistrations(s.Ctx, "")
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(model.RegistrationID("reg-b"), list[0].ID)
}
