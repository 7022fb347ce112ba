package model

import "time"

// RegistrationID uniquely identifies a player registration
type RegistrationID string

// Fixture dates for which men's league players declare availability
var (
	FixtureJan10 = time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	FixtureJan11 = time.Date(2026, time.January, 11, 0, 0, 0, 0, time.UTC)
	FixtureJan18 = time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)
)

// Availability holds one flag per fixed fixture date
// Only meaningful for the men's league
type Availability struct {
	Jan10 bool `json:"available_on_jan_10_2026"`
	Jan11 bool `json:"available_on_jan_11_2026"`
	Jan18 bool `json:"available_on_jan_18_2026"`
}

// PlayerRegistration is a single submitted and stored registration
type PlayerRegistration struct {
	ID             RegistrationID
	League         League
	RegistrantName string // club member submitting the registration
	RegistrantCode int    // club member code
	PlayerName     string
	Relationship   Relationship
	DateOfBirth    time.Time // date only, UTC midnight
	ContactNumber  string
	Profile        PlayerProfile
	BattingStyle   BattingStyle // empty when not set
	BowlingStyle   BowlingStyle // empty when not set
	Availability   Availability
	CreatedAt      time.Time // assigned once at persistence time
}

// HasBattingStyle reports whether a batting style was recorded
func (p *PlayerRegistration) HasBattingStyle() bool {
	return p.BattingStyle != ""
}

// HasBowlingStyle reports whether a bowling style was recorded
func (p *PlayerRegistration) HasBowlingStyle() bool {
	return p.BowlingStyle != ""
}

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"
