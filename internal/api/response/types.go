package response

import (
	"time"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/services/roster"
)

// Registration represents a stored registration in API responses
type Registration struct {
	ID             string              `json:"id"`
	League         string              `json:"league"`
	LeagueLabel    string              `json:"league_label"`
	ClubMemberName string              `json:"club_member_name"`
	CodeNumber     int                 `json:"code_number"`
	PlayerName     string              `json:"player_name"`
	Relationship   string              `json:"relationship"`
	DateOfBirth    string              `json:"date_of_birth"`
	Contact        string              `json:"contact"`
	PlayerProfile  string              `json:"player_profile"`
	BattingStyle   *string             `json:"batting_style"`
	BowlingStyle   *string             `json:"bowling_style"`
	Availability   *model.Availability `json:"availability,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// RegistrationFromModel converts a model.PlayerRegistration
// Unset styles are null; availability is only present for the men's league
func RegistrationFromModel(p *model.PlayerRegistration) Registration {
	var batting, bowling *string
	if p.HasBattingStyle() {
		s := string(p.BattingStyle)
		batting = &s
	}
	if p.HasBowlingStyle() {
		s := string(p.BowlingStyle)
		bowling = &s
	}

	var availability *model.Availability
	if p.League == model.LeagueMen {
		a := p.Availability
		availability = &a
	}

	return Registration{
		ID:             string(p.ID),
		League:         string(p.League),
		LeagueLabel:    p.League.Label(),
		ClubMemberName: p.RegistrantName,
		CodeNumber:     p.RegistrantCode,
		PlayerName:     p.PlayerName,
		Relationship:   string(p.Relationship),
		DateOfBirth:    p.DateOfBirth.Format(model.DateLayout),
		Contact:        p.ContactNumber,
		PlayerProfile:  string(p.Profile),
		BattingStyle:   batting,
		BowlingStyle:   bowling,
		Availability:   availability,
		CreatedAt:      p.CreatedAt,
	}
}

// User represents an account in API responses
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserFromSession converts the session's user
func UserFromSession(s *auth.Session) User {
	return User{
		ID:       string(s.UserID),
		Username: s.Username,
	}
}

// LoginResponse is the response for a successful login
type LoginResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
	IsAdmin      bool      `json:"is_admin"`
}

// MeResponse describes the signed-in user
type MeResponse struct {
	User    User `json:"user"`
	IsAdmin bool `json:"is_admin"`
}

// Players is the response for a filtered roster
type Players struct {
	League  string         `json:"league"`
	Players []Registration `json:"players"`
	Count   int            `json:"count"`
	Total   int            `json:"total"`
	Stats   roster.Stats   `json:"stats"`
}

// PlayersFromResult converts a roster.Result
func PlayersFromResult(r *roster.Result) Players {
	players := make([]Registration, len(r.Players))
	for i, p := range r.Players {
		players[i] = RegistrationFromModel(p)
	}
	league := string(r.Partition)
	if league == "" {
		league = roster.All
	}
	return Players{
		League:  league,
		Players: players,
		Count:   len(players),
		Total:   r.Total,
		Stats:   r.Stats,
	}
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
