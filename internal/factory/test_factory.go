package factory

import (
	"context"
	"time"

	"github.com/mcoot/cricketreg/internal/dependencies/mocks"
	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/services/validation"
	"github.com/mcoot/cricketreg/internal/storage"
	"github.com/mcoot/cricketreg/internal/storage/memory"
	"github.com/mcoot/cricketreg/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDGenerator
}

// TestStart is the mock clock's initial time
var TestStart = time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC)

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage creates a test App over the given storage
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(TestStart)
	mockIDs := mocks.NewMockIDGenerator()

	app := newWithDependencies(store, mockClock, mockIDs, auth.DefaultConfig(), time.UTC, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
	}
}

// TestAdminPassword is the password of admins created by CreateAdmin
const TestAdminPassword = "wicket-keeper-1"

// CreateAdmin creates an allow-listed admin account
func (t *TestApp) CreateAdmin(ctx context.Context, username string) (*model.User, error) {
	return t.EnsureAdmin(ctx, username, TestAdminPassword)
}

// CreateUser creates an account that is not on the allow-list
func (t *TestApp) CreateUser(ctx context.Context, username string) (*model.User, error) {
	return t.AuthService.CreateUser(ctx, username, TestAdminPassword)
}

// MenCandidate returns a valid men's league self registration
func MenCandidate(name string, code string) validation.Candidate {
	return validation.Candidate{
		League:         string(model.LeagueMen),
		RegistrantName: name,
		RegistrantCode: code,
		PlayerName:     name,
		Relationship:   string(model.RelationshipSelf),
		DateOfBirth:    "1990-05-04",
		ContactNumber:  "9876543210",
		Profile:        string(model.ProfileBatter),
		BattingStyle:   string(model.BattingRight),
		Availability:   model.Availability{Jan10: true, Jan18: true},
	}
}

// WomenWardCandidate returns a valid women's league ward registration
func WomenWardCandidate(registrant, player, code string) validation.Candidate {
	return validation.Candidate{
		League:         string(model.LeagueWomen),
		RegistrantName: registrant,
		RegistrantCode: code,
		PlayerName:     player,
		Relationship:   string(model.RelationshipWard),
		DateOfBirth:    "2011-03-15",
		ContactNumber:  "9123456780",
		Profile:        string(model.ProfileBowler),
		BowlingStyle:   string(model.BowlingRightSpin),
	}
}
