package cli

import (
	"github.com/spf13/cobra"
)

// registrationRequest mirrors the API's registration body
type registrationRequest struct {
	League         string `json:"league"`
	ClubMemberName string `json:"club_member_name"`
	CodeNumber     string `json:"code_number"`
	PlayerName     string `json:"player_name"`
	Relationship   string `json:"relationship"`
	DateOfBirth    string `json:"date_of_birth"`
	Contact        string `json:"contact"`
	PlayerProfile  string `json:"player_profile"`
	BattingStyle   string `json:"batting_style,omitempty"`
	BowlingStyle   string `json:"bowling_style,omitempty"`
	Availability
}

func newRegisterCmd() *cobra.Command {
	var req registrationRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Submit a player registration",
		Long: `Submit a player registration.

The server validates every field and reports all problems at once.
Batting and bowling styles are only needed for profiles that use them;
availability flags only apply to the men's league.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Registration

			if err := client.Post("/api/v1/registrations", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.League, "league", "", "League: men or women")
	cmd.Flags().StringVar(&req.ClubMemberName, "member", "", "Club member name")
	cmd.Flags().StringVar(&req.CodeNumber, "code", "", "Club member code number")
	cmd.Flags().StringVar(&req.PlayerName, "player", "", "Player name (defaults to the member name)")
	cmd.Flags().StringVar(&req.Relationship, "relationship", "Self", "Relationship: Self, Spouse or Ward")
	cmd.Flags().StringVar(&req.DateOfBirth, "dob", "", "Date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Contact, "contact", "", "10-digit contact number")
	cmd.Flags().StringVar(&req.PlayerProfile, "profile", "", "Batter, Bowler, Batting Allrounder, Bowling Allrounder or Wicket Keeper")
	cmd.Flags().StringVar(&req.BattingStyle, "batting", "", "Batting style: Right or Left")
	cmd.Flags().StringVar(&req.BowlingStyle, "bowling", "", "Bowling style")
	cmd.Flags().BoolVar(&req.Jan10, "jan10", false, "Available on 10 January 2026 (men only)")
	cmd.Flags().BoolVar(&req.Jan11, "jan11", false, "Available on 11 January 2026 (men only)")
	cmd.Flags().BoolVar(&req.Jan18, "jan18", false, "Available on 18 January 2026 (men only)")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if req.PlayerName == "" && req.Relationship == "Self" {
			req.PlayerName = req.ClubMemberName
		}
	}

	return cmd
}
