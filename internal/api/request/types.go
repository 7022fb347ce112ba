package request

import (
	"bytes"
	"encoding/json"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/validation"
)

// Text accepts either a JSON string or a bare JSON number
// Numeric form fields arrive both ways depending on the client
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

// RegistrationRequest is the request body for submitting a registration
type RegistrationRequest struct {
	League         string `json:"league"`
	ClubMemberName string `json:"club_member_name"`
	CodeNumber     Text   `json:"code_number"`
	PlayerName     string `json:"player_name"`
	Relationship   string `json:"relationship"`
	DateOfBirth    string `json:"date_of_birth"`
	Contact        Text   `json:"contact"`
	PlayerProfile  string `json:"player_profile"`
	BattingStyle   string `json:"batting_style"`
	BowlingStyle   string `json:"bowling_style"`
	model.Availability
}

// Candidate converts the request to validation input
func (r RegistrationRequest) Candidate() validation.Candidate {
	return validation.Candidate{
		League:         r.League,
		RegistrantName: r.ClubMemberName,
		RegistrantCode: string(r.CodeNumber),
		PlayerName:     r.PlayerName,
		Relationship:   r.Relationship,
		DateOfBirth:    r.DateOfBirth,
		ContactNumber:  string(r.Contact),
		Profile:        r.PlayerProfile,
		BattingStyle:   r.BattingStyle,
		BowlingStyle:   r.BowlingStyle,
		Availability:   r.Availability,
	}
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
