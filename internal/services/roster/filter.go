// Package roster filters, summarises and loads the registered player roster
package roster

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mcoot/cricketreg/internal/model"
)

// All selects every value of a filter
const All = "all"

// Criteria narrows a roster; every set criterion must match
type Criteria struct {
	Search  string
	Profile string
	League  string
}

// ParseCriteria reads criteria from query parameters q, profile and league
func ParseCriteria(values url.Values) Criteria {
	return Criteria{
		Search:  values.Get("q"),
		Profile: values.Get("profile"),
		League:  values.Get("league"),
	}
}

// Values encodes criteria back to query parameters, omitting unset ones
func (c Criteria) Values() url.Values {
	values := url.Values{}
	if s := strings.TrimSpace(c.Search); s != "" {
		values.Set("q", s)
	}
	if !isAny(c.Profile) {
		values.Set("profile", c.Profile)
	}
	if !isAny(c.League) {
		values.Set("league", c.League)
	}
	return values
}

// Partition returns the league selected by the criteria, or "" for all leagues
// An unknown league value is returned as is so that it matches nothing
func (c Criteria) Partition() model.League {
	if isAny(c.League) {
		return ""
	}
	return model.League(strings.ToLower(strings.TrimSpace(c.League)))
}

func isAny(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Filter returns the players matching c, preserving their order
// Unknown profile or league values match nothing
func Filter(players []*model.PlayerRegistration, c Criteria) []*model.PlayerRegistration {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	anyProfile := isAny(c.Profile)
	profile := model.PlayerProfile(strings.TrimSpace(c.Profile))
	league := c.Partition()

	result := make([]*model.PlayerRegistration, 0, len(players))
	for _, p := range players {
		if !anyProfile && p.Profile != profile {
			continue
		}
		if league != "" && p.League != league {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// matchesSearch expects search to be lower-cased
func matchesSearch(p *model.PlayerRegistration, search string) bool {
	fields := []string{
		p.PlayerName,
		p.RegistrantName,
		strconv.Itoa(p.RegistrantCode),
		string(p.League),
		p.League.Label(),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}
