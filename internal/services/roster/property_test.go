package roster

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mcoot/cricketreg/internal/model"
)

func drawRoster(r *rapid.T) []*model.PlayerRegistration {
	n := rapid.IntRange(0, 30).Draw(r, "n")
	roster := make([]*model.PlayerRegistration, n)
	for i := range roster {
		league := rapid.SampledFrom(model.Leagues()).Draw(r, "league")
		profile := rapid.SampledFrom(model.Profiles()).Draw(r, "profile")
		code := rapid.IntRange(1, 99999).Draw(r, "code")
		name := rapid.StringMatching(`[A-Z][a-z]{2,6} [A-Z][a-z]{2,6}`).Draw(r, "name")
		roster[i] = player(fmt.Sprintf("p%d", i), league, name, code, profile)
		// Keep digits out of names so only the code can match a numeric search
		roster[i].RegistrantName = name
	}
	return roster
}

// TestCodeSearchProperty checks that searching by a code returns exactly the
// players whose code contains it, in their original order
func TestCodeSearchProperty(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		roster := drawRoster(r)
		search := strconv.Itoa(rapid.IntRange(0, 999).Draw(r, "search"))

		var expected []string
		for _, p := range roster {
			if strings.Contains(strconv.Itoa(p.RegistrantCode), search) {
				expected = append(expected, string(p.ID))
			}
		}

		got := ids(Filter(roster, Criteria{Search: search}))
		if expected == nil {
			expected = []string{}
		}
		require.Equal(r, expected, got)
	})
}

// TestFilterIsOrderedSubsetProperty checks that any filter result is a subsequence of the roster
func TestFilterIsOrderedSubsetProperty(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		roster := drawRoster(r)
		c := Criteria{
			Search:  rapid.StringMatching(`[a-z0-9]{0,3}`).Draw(r, "search"),
			Profile: rapid.SampledFrom([]string{"", "all", "Batter", "Bowler", "Wicket Keeper", "Umpire"}).Draw(r, "profile"),
			League:  rapid.SampledFrom([]string{"", "all", "men", "women", "juniors"}).Draw(r, "league"),
		}

		got := Filter(roster, c)
		next := 0
		for _, p := range got {
			for next < len(roster) && roster[next] != p {
				next++
			}
			require.Less(r, next, len(roster), "result out of order or not from roster")
			next++

			if league := c.Partition(); league != "" {
				require.Equal(r, league, p.League)
			}
			if !isAny(c.Profile) {
				require.Equal(r, model.PlayerProfile(c.Profile), p.Profile)
			}
		}
	})
}
