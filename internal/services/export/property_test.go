package export

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mcoot/cricketreg/internal/model"
)

// TestAvailabilityProperty checks row count and that availability is N/A for every non-men row
func TestAvailabilityProperty(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(r, "n")
		players := make([]*model.PlayerRegistration, n)
		for i := range players {
			players[i] = &model.PlayerRegistration{
				ID:           model.RegistrationID(fmt.Sprintf("p%d", i)),
				League:       rapid.SampledFrom(model.Leagues()).Draw(r, "league"),
				Profile:      model.ProfileBatter,
				BattingStyle: model.BattingRight,
				Availability: model.Availability{
					Jan10: rapid.Bool().Draw(r, "jan10"),
					Jan11: rapid.Bool().Draw(r, "jan11"),
					Jan18: rapid.Bool().Draw(r, "jan18"),
				},
			}
		}
		partition := rapid.SampledFrom([]model.League{"", model.LeagueMen, model.LeagueWomen}).Draw(r, "partition")

		rows := Rows(players, partition, time.UTC)
		require.Len(r, rows, n)
		for i, row := range rows {
			require.Len(r, row, len(Headers(partition)))
			if len(row) == len(baseHeaders) {
				continue
			}
			for _, cell := range row[len(baseHeaders):] {
				if players[i].League == model.LeagueMen {
					require.Contains(r, []string{"Yes", "No"}, cell)
				} else {
					require.Equal(r, NotApplicable, cell)
				}
			}
		}
	})
}
