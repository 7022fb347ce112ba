package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

// filterFlags are the roster filters shared by list and export
type filterFlags struct {
	league  string
	profile string
	search  string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.league, "league", "all", "League: all, men or women")
	cmd.Flags().StringVar(&f.profile, "profile", "all", "Player profile, or all")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Search names, code number or league")
}

func (f *filterFlags) query() string {
	values := url.Values{}
	if f.league != "" {
		values.Set("league", f.league)
	}
	if f.profile != "" {
		values.Set("profile", f.profile)
	}
	if f.search != "" {
		values.Set("q", f.search)
	}
	if encoded := values.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

func newPlayersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Registered player commands (admin only)",
	}

	cmd.AddCommand(newPlayersListCmd())
	cmd.AddCommand(newPlayersStatsCmd())
	cmd.AddCommand(newPlayersExportCmd())

	return cmd
}

func newPlayersListCmd() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered players, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayersResult

			if err := client.Get("/api/v1/admin/players"+filters.query(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
	filters.register(cmd)

	return cmd
}

func newPlayersStatsCmd() *cobra.Command {
	var league string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show role counts for a league",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Stats

			path := "/api/v1/admin/players/stats?league=" + url.QueryEscape(league)
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&league, "league", "all", "League: all, men or women")

	return cmd
}

func newPlayersExportCmd() *cobra.Command {
	var (
		filters filterFlags
		file    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the filtered roster as an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			download, err := client.GetFile("/api/v1/admin/players/export" + filters.query())
			if err != nil {
				return err
			}

			if file == "" {
				file = download.FileName
			}
			if file == "" {
				file = "players.xlsx"
			}
			if err := os.WriteFile(file, download.Data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}

			out := NewOutput(cfg.Output)
			out.Print(ExportResult{File: file, Count: download.Count, Bytes: len(download.Data)})
			return nil
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file (defaults to the server's file name)")

	return cmd
}
