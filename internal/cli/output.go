package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Registration:
		o.printRegistration(v)
	case LoginResult:
		o.printLoginResult(v)
	case MeResult:
		o.printMe(v)
	case PlayersResult:
		o.printPlayers(v)
	case Stats:
		o.printStats(v)
	case ExportResult:
		o.printExport(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Availability response type
type Availability struct {
	Jan10 bool `json:"available_on_jan_10_2026"`
	Jan11 bool `json:"available_on_jan_11_2026"`
	Jan18 bool `json:"available_on_jan_18_2026"`
}

// Registration response type (matches API)
type Registration struct {
	ID             string        `json:"id"`
	League         string        `json:"league"`
	LeagueLabel    string        `json:"league_label"`
	ClubMemberName string        `json:"club_member_name"`
	CodeNumber     int           `json:"code_number"`
	PlayerName     string        `json:"player_name"`
	Relationship   string        `json:"relationship"`
	DateOfBirth    string        `json:"date_of_birth"`
	Contact        string        `json:"contact"`
	PlayerProfile  string        `json:"player_profile"`
	BattingStyle   *string       `json:"batting_style"`
	BowlingStyle   *string       `json:"bowling_style"`
	Availability   *Availability `json:"availability,omitempty"`
	CreatedAt      string        `json:"created_at"`
}

// User response type
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResult response type
type LoginResult struct {
	SessionToken string `json:"session_token"`
	ExpiresAt    string `json:"expires_at"`
	User         User   `json:"user"`
	IsAdmin      bool   `json:"is_admin"`
}

// MeResult response type
type MeResult struct {
	User    User `json:"user"`
	IsAdmin bool `json:"is_admin"`
}

// Stats response type
type Stats struct {
	Total         int `json:"total"`
	Batters       int `json:"batters"`
	Bowlers       int `json:"bowlers"`
	AllRounders   int `json:"all_rounders"`
	WicketKeepers int `json:"wicket_keepers"`
}

// PlayersResult response type
type PlayersResult struct {
	League  string         `json:"league"`
	Players []Registration `json:"players"`
	Count   int            `json:"count"`
	Total   int            `json:"total"`
	Stats   Stats          `json:"stats"`
}

// ExportResult describes a saved export
type ExportResult struct {
	File  string `json:"file"`
	Count string `json:"count"`
	Bytes int    `json:"bytes"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func (a *Availability) String() string {
	if a == nil {
		return "N/A"
	}
	var days []string
	if a.Jan10 {
		days = append(days, "Jan 10")
	}
	if a.Jan11 {
		days = append(days, "Jan 11")
	}
	if a.Jan18 {
		days = append(days, "Jan 18")
	}
	if len(days) == 0 {
		return "None"
	}
	return strings.Join(days, ", ")
}

func (o *Output) printRegistration(r Registration) {
	fmt.Printf("Registration: %s\n", r.ID)
	fmt.Printf("League: %s\n", r.LeagueLabel)
	fmt.Printf("Player: %s (%s of %s, code %d)\n", r.PlayerName, r.Relationship, r.ClubMemberName, r.CodeNumber)
	fmt.Printf("Date of Birth: %s\n", r.DateOfBirth)
	fmt.Printf("Contact: %s\n", r.Contact)
	fmt.Printf("Profile: %s\n", r.PlayerProfile)
	fmt.Printf("Batting: %s\n", orNA(r.BattingStyle))
	fmt.Printf("Bowling: %s\n", orNA(r.BowlingStyle))
	if r.Availability != nil {
		fmt.Printf("Availability: %s\n", r.Availability)
	}
}

func (o *Output) printLoginResult(l LoginResult) {
	fmt.Printf("Signed in as: %s (%s)\n", l.User.Username, l.User.ID)
	fmt.Printf("Admin: %s\n", yesNo(l.IsAdmin))
	fmt.Printf("Token: %s\n", l.SessionToken)
	fmt.Printf("Expires: %s\n", l.ExpiresAt)
}

func (o *Output) printMe(m MeResult) {
	fmt.Printf("User: %s (%s)\n", m.User.Username, m.User.ID)
	fmt.Printf("Admin: %s\n", yesNo(m.IsAdmin))
}

func (o *Output) printPlayers(p PlayersResult) {
	fmt.Printf("League: %s\n", p.League)
	fmt.Printf("Showing %d of %d players\n", p.Count, p.Total)
	if len(p.Players) == 0 {
		return
	}

	fmt.Println()
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "LEAGUE\tPLAYER\tCODE\tRELATIONSHIP\tPROFILE\tBATTING\tBOWLING\tAVAILABILITY")
	for _, r := range p.Players {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			r.LeagueLabel, r.PlayerName, r.CodeNumber, r.Relationship, r.PlayerProfile,
			orNA(r.BattingStyle), orNA(r.BowlingStyle), r.Availability)
	}
	_ = tw.Flush()

	fmt.Println()
	o.printStats(p.Stats)
}

func (o *Output) printStats(s Stats) {
	fmt.Printf("Total: %d\n", s.Total)
	fmt.Printf("Batters: %d\n", s.Batters)
	fmt.Printf("Bowlers: %d\n", s.Bowlers)
	fmt.Printf("All-rounders: %d\n", s.AllRounders)
	fmt.Printf("Wicket keepers: %d\n", s.WicketKeepers)
}

func (o *Output) printExport(e ExportResult) {
	fmt.Printf("Exported %s players to %s (%d bytes)\n", e.Count, e.File, e.Bytes)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
