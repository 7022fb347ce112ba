package factory

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/admingate"
	"github.com/mcoot/cricketreg/internal/services/export"
	"github.com/mcoot/cricketreg/internal/services/roster"
	"github.com/mcoot/cricketreg/internal/services/validation"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: two registrations, an admin signs in, filters, and exports
func (s *IntegrationSuite) TestRegisterReviewExportFlow() {
	s.app.MockIDs.Queue("reg-ravi", "reg-ananya")

	// Step 1: A club member registers themselves in the men's league
	ravi, err := s.app.RegistrationService.Submit(s.ctx, MenCandidate("Ravi Kumar", "1042"))
	s.Require().NoError(err)
	s.Equal(model.RegistrationID("reg-ravi"), ravi.ID)

	// Step 2: Another member registers their ward in the women's league
	s.app.MockClock.Advance(time.Minute)
	ananya, err := s.app.RegistrationService.Submit(s.ctx, WomenWardCandidate("Priya Sharma", "Ananya Sharma", "2077"))
	s.Require().NoError(err)
	s.Equal(model.RegistrationID("reg-ananya"), ananya.ID)

	// Step 3: The admin signs in and passes the gate
	_, err = s.app.CreateAdmin(s.ctx, "organiser")
	s.Require().NoError(err)
	session, err := s.app.AuthService.Login(s.ctx, "organiser", TestAdminPassword)
	s.Require().NoError(err)
	access, err := s.app.AdminGate.Check(s.ctx, session)
	s.Require().NoError(err)
	s.True(access.Identity.IsAdmin)

	// Step 4: The full roster is newest first with role stats
	result, err := s.app.RosterService.Load(s.ctx, session.Token, roster.Criteria{})
	s.Require().NoError(err)
	s.Require().Len(result.Players, 2)
	s.Equal(ananya.ID, result.Players[0].ID)
	s.Equal(ravi.ID, result.Players[1].ID)
	s.Equal(roster.Stats{Total: 2, Batters: 1, Bowlers: 1}, result.Stats)

	// Step 5: Searching by code narrows to one player
	result, err = s.app.RosterService.Load(s.ctx, session.Token, roster.Criteria{Search: "1042"})
	s.Require().NoError(err)
	s.Require().Len(result.Players, 1)
	s.Equal(ravi.ID, result.Players[0].ID)
	s.Equal(2, result.Total)

	// Step 6: Exporting the full roster marks availability N/A for the women's row
	result, err = s.app.RosterService.Load(s.ctx, session.Token, roster.Criteria{League: roster.All})
	s.Require().NoError(err)
	report, err := s.app.ExportService.Build(result.Players, result.Partition)
	s.Require().NoError(err)
	s.Equal(2, report.Count)
	s.Equal("all_players_2025-12-01.xlsx", report.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(report.Data))
	s.Require().NoError(err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName(""))
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal("Ananya Sharma", rows[1][3])
	s.Equal(export.NotApplicable, rows[1][len(rows[1])-1])
	s.Equal("Yes", rows[2][len(rows[2])-1])
}

func (s *IntegrationSuite) TestRejectedRegistrationIsNotStored() {
	c := MenCandidate("Ravi Kumar", "1042")
	c.Relationship = string(model.RelationshipWard)

	_, err := s.app.RegistrationService.Submit(s.ctx, c)
	var verrs *validation.Errors
	s.Require().ErrorAs(err, &verrs)
	s.True(verrs.Has(validation.FieldRelationship))

	regs, err := s.app.Storage.ListRegistrations(s.ctx, "")
	s.Require().NoError(err)
	s.Empty(regs)
	s.Equal(0, s.app.MockIDs.Issued())
}

func (s *IntegrationSuite) TestSignedInNonAdminIsDenied() {
	_, err := s.app.CreateUser(s.ctx, "spectator")
	s.Require().NoError(err)
	session, err := s.app.AuthService.Login(s.ctx, "spectator", TestAdminPassword)
	s.Require().NoError(err)

	_, err = s.app.AdminGate.Check(s.ctx, session)
	s.ErrorIs(err, admingate.ErrNotAdmin)
}

func (s *IntegrationSuite) TestEnsureAdminIsIdempotent() {
	first, err := s.app.CreateAdmin(s.ctx, "organiser")
	s.Require().NoError(err)
	second, err := s.app.EnsureAdmin(s.ctx, "organiser", "ignored-password")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	isAdmin, err := s.app.Storage.IsAdmin(s.ctx, first.ID)
	s.Require().NoError(err)
	s.True(isAdmin)
}
