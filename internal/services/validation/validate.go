// Package validation turns raw registration input into a normalized PlayerRegistration
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/cricketreg/internal/model"
)

// Candidate is raw, unvalidated registration input as submitted by a form or API client
type Candidate struct {
	League         string `json:"league"`
	RegistrantName string `json:"club_member_name"`
	RegistrantCode string `json:"code_number"`
	PlayerName     string `json:"player_name"`
	Relationship   string `json:"relationship"`
	DateOfBirth    string `json:"date_of_birth"`
	ContactNumber  string `json:"contact"`
	Profile        string `json:"player_profile"`
	BattingStyle   string `json:"batting_style"`
	BowlingStyle   string `json:"bowling_style"`
	model.Availability
}

// WithProfile returns a copy of c with the profile changed and any style the
// new profile does not require cleared
func (c Candidate) WithProfile(profile string) Candidate {
	c.Profile = profile
	rule := RuleFor(model.PlayerProfile(strings.TrimSpace(profile)))
	if !rule.Batting {
		c.BattingStyle = ""
	}
	if !rule.Bowling {
		c.BowlingStyle = ""
	}
	return c
}

const (
	minNameLength = 2
	maxNameLength = 50
	contactLength = 10
)

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z\s]+$`)
	contactPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Validate checks c against every registration rule as of now
// It returns either a normalized registration or a non-empty error set, never both
// The returned registration has no ID or creation time
func Validate(c Candidate, now time.Time) (*model.PlayerRegistration, *Errors) {
	errs := NewErrors()

	league, leagueOK := checkLeague(c.League, errs)
	registrantName, registrantOK := checkName(FieldRegistrantName, c.RegistrantName, errs)
	code := checkCode(c.RegistrantCode, errs)
	relationship, relationshipOK := checkRelationship(c.Relationship, errs)
	dob, dobOK := checkDateOfBirth(c.DateOfBirth, errs)
	contact := checkContact(c.ContactNumber, errs)
	profile, profileOK := checkProfile(c.Profile, errs)

	// A Self registration may leave the player name blank to reuse the member's name
	playerName := strings.TrimSpace(c.PlayerName)
	playerOK := false
	if relationship == model.RelationshipSelf && playerName == "" {
		if registrantOK {
			playerName = strings.ToLower(registrantName)
			playerOK = true
		}
	} else {
		playerName, playerOK = checkName(FieldPlayerName, c.PlayerName, errs)
	}

	// Cross-field checks

	relationshipAllowed := false
	if leagueOK && relationshipOK {
		if league.Allows(relationship) {
			relationshipAllowed = true
		} else {
			errs.Add(FieldRelationship, fmt.Sprintf("%s is not a valid relationship in the %s league", relationship, league.Label()))
		}
	}

	if relationshipOK && relationship == model.RelationshipSelf && registrantOK && playerOK {
		if !sameName(playerName, registrantName) {
			errs.Add(FieldPlayerName, "Player name must match the club member name when registering yourself")
		}
	}

	var battingStyle model.BattingStyle
	var bowlingStyle model.BowlingStyle
	if profileOK {
		rule := RuleFor(profile)
		if rule.Batting {
			battingStyle = checkBattingStyle(c.BattingStyle, profile, errs)
		}
		if rule.Bowling {
			bowlingStyle = checkBowlingStyle(c.BowlingStyle, profile, errs)
		}
	}

	if dobOK && relationshipAllowed {
		age := Age(dob, now)
		if relationship == model.RelationshipWard {
			if age < MinWardAge || age > MaxWardAge {
				errs.Add(FieldDateOfBirth, fmt.Sprintf("Ward must be between %d and %d years old", MinWardAge, MaxWardAge))
			}
		} else if age < MinPlayerAge {
			errs.Add(FieldDateOfBirth, fmt.Sprintf("Player must be at least %d years old", MinPlayerAge))
		}
	}

	if !errs.Empty() {
		return nil, errs
	}

	availability := c.Availability
	if league != model.LeagueMen {
		availability = model.Availability{}
	}

	return &model.PlayerRegistration{
		League:         league,
		RegistrantName: registrantName,
		RegistrantCode: code,
		PlayerName:     playerName,
		Relationship:   relationship,
		DateOfBirth:    dob,
		ContactNumber:  contact,
		Profile:        profile,
		BattingStyle:   battingStyle,
		BowlingStyle:   bowlingStyle,
		Availability:   availability,
	}, nil
}

func checkLeague(raw string, errs *Errors) (model.League, bool) {
	league := model.League(strings.ToLower(strings.TrimSpace(raw)))
	if !league.Valid() {
		errs.Add(FieldLeague, "Please select a league")
		return "", false
	}
	return league, true
}

func checkName(field, raw string, errs *Errors) (string, bool) {
	name := strings.TrimSpace(raw)
	switch {
	case len(name) < minNameLength:
		errs.Add(field, fmt.Sprintf("Name must be at least %d characters", minNameLength))
	case len(name) > maxNameLength:
		errs.Add(field, fmt.Sprintf("Name must be at most %d characters", maxNameLength))
	case !namePattern.MatchString(name):
		errs.Add(field, "Name can only contain letters and spaces")
	default:
		return name, true
	}
	return "", false
}

func checkCode(raw string, errs *Errors) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		errs.Add(FieldRegistrantCode, "Code number is required")
		return 0
	}
	code, err := strconv.Atoi(trimmed)
	if err != nil {
		errs.Add(FieldRegistrantCode, "Code number must be a number")
		return 0
	}
	if code <= 0 {
		errs.Add(FieldRegistrantCode, "Code number must be a positive number")
		return 0
	}
	return code
}

func checkRelationship(raw string, errs *Errors) (model.Relationship, bool) {
	relationship := model.Relationship(strings.TrimSpace(raw))
	if !relationship.Valid() {
		errs.Add(FieldRelationship, "Please select a relationship")
		return "", false
	}
	return relationship, true
}

func checkDateOfBirth(raw string, errs *Errors) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		errs.Add(FieldDateOfBirth, "Date of birth is required")
		return time.Time{}, false
	}
	dob, err := time.Parse(model.DateLayout, trimmed)
	if err != nil {
		errs.Add(FieldDateOfBirth, "Invalid date format")
		return time.Time{}, false
	}
	return dob, true
}

func checkContact(raw string, errs *Errors) string {
	contact := strings.TrimSpace(raw)
	switch {
	case contact == "":
		errs.Add(FieldContactNumber, "Contact number is required")
	case !contactPattern.MatchString(contact):
		errs.Add(FieldContactNumber, "Contact number must contain only numbers")
	case len(contact) != contactLength:
		errs.Add(FieldContactNumber, fmt.Sprintf("Contact number must be %d digits", contactLength))
	default:
		return contact
	}
	return ""
}

func checkProfile(raw string, errs *Errors) (model.PlayerProfile, bool) {
	profile := model.PlayerProfile(strings.TrimSpace(raw))
	if !profile.Valid() {
		errs.Add(FieldProfile, "Please select a player profile")
		return "", false
	}
	return profile, true
}

func checkBattingStyle(raw string, profile model.PlayerProfile, errs *Errors) model.BattingStyle {
	style := model.BattingStyle(strings.TrimSpace(raw))
	switch {
	case style == "":
		errs.Add(FieldBattingStyle, fmt.Sprintf("Batting style is required for a %s", profile))
	case !style.Valid():
		errs.Add(FieldBattingStyle, "Please select a valid batting style")
	default:
		return style
	}
	return ""
}

func checkBowlingStyle(raw string, profile model.PlayerProfile, errs *Errors) model.BowlingStyle {
	style := model.BowlingStyle(strings.TrimSpace(raw))
	switch {
	case style == "":
		errs.Add(FieldBowlingStyle, fmt.Sprintf("Bowling style is required for a %s", profile))
	case !style.Valid():
		errs.Add(FieldBowlingStyle, "Please select a valid bowling style")
	default:
		return style
	}
	return ""
}

// sameName compares names ignoring case and whitespace differences
func sameName(a, b string) bool {
	return normalizeName(a) == normalizeName(b)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
