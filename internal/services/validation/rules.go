package validation

import (
	"time"

	"github.com/mcoot/cricketreg/internal/model"
)

// StyleRule lists which style fields a profile requires
type StyleRule struct {
	Batting bool
	Bowling bool
}

var styleRules = map[model.PlayerProfile]StyleRule{
	model.ProfileBatter:            {Batting: true},
	model.ProfileBowler:            {Bowling: true},
	model.ProfileBattingAllrounder: {Batting: true, Bowling: true},
	model.ProfileBowlingAllrounder: {Batting: true, Bowling: true},
	model.ProfileWicketKeeper:      {Batting: true, Bowling: true},
}

// RuleFor returns the style requirements of a profile
// Unknown profiles require nothing
func RuleFor(p model.PlayerProfile) StyleRule {
	return styleRules[p]
}

// Age limits
const (
	MinPlayerAge = 18
	MinWardAge   = 12
	MaxWardAge   = 18
)

// Age returns the age in whole years at now: the calendar year difference,
// less one when the birthday has not yet occurred in now's year
func Age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
