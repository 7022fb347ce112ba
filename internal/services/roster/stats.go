package roster

import "github.com/mcoot/cricketreg/internal/model"

// Stats counts players by role
type Stats struct {
	Total         int `json:"total"`
	Batters       int `json:"batters"`
	Bowlers       int `json:"bowlers"`
	AllRounders   int `json:"all_rounders"`
	WicketKeepers int `json:"wicket_keepers"`
}

// ComputeStats tallies players by profile
func ComputeStats(players []*model.PlayerRegistration) Stats {
	stats := Stats{Total: len(players)}
	for _, p := range players {
		switch {
		case p.Profile == model.ProfileBatter:
			stats.Batters++
		case p.Profile == model.ProfileBowler:
			stats.Bowlers++
		case p.Profile.IsAllrounder():
			stats.AllRounders++
		case p.Profile == model.ProfileWicketKeeper:
			stats.WicketKeepers++
		}
	}
	return stats
}
