// Package pages renders the site's HTML pages as templ components
package pages

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/export"
	"github.com/mcoot/cricketreg/internal/services/roster"
	"github.com/mcoot/cricketreg/internal/services/validation"
	"github.com/mcoot/cricketreg/internal/web/templates/layout"
)

//go:embed html/*.html
var files embed.FS

var funcs = template.FuncMap{
	"fieldError": func(errs *validation.Errors, field string) string {
		return errs.First(field)
	},
	"formatDate": func(t time.Time) string {
		return t.Format(export.DateFormat)
	},
	"formatTimestamp": func(t time.Time, loc *time.Location) string {
		if loc == nil {
			loc = time.UTC
		}
		return t.In(loc).Format(export.TimestampFormat)
	},
	"orNA": func(v string) string {
		if v == "" {
			return export.NotApplicable
		}
		return v
	},
	"availability": availabilitySummary,
}

// parse loads a page file and returns its "content" template
func parse(page string) *template.Template {
	return template.Must(template.New(page).Funcs(funcs).ParseFS(files, "html/"+page)).Lookup("content")
}

// withLayout renders a page's content inside the site shell
func withLayout(content *template.Template, page layout.PageData, data any) templ.Component {
	return layout.Base(page, templ.FromGoHTML(content, data))
}

var (
	homeTemplate      = parse("home.html")
	registerTemplate  = parse("register.html")
	successTemplate   = parse("success.html")
	loginTemplate     = parse("login.html")
	dashboardTemplate = parse("dashboard.html")
	notFoundTemplate  = parse("notfound.html")
	errorTemplate     = parse("error.html")
)

// HomeData is the data for the landing page
type HomeData struct {
	layout.PageData
	MinPlayerAge int
	MinWardAge   int
	MaxWardAge   int
}

// Home renders the landing page
func Home(data HomeData) templ.Component {
	data.MinPlayerAge = validation.MinPlayerAge
	data.MinWardAge = validation.MinWardAge
	data.MaxWardAge = validation.MaxWardAge
	return withLayout(homeTemplate, data.PageData, data)
}

// RegisterData is the data for the registration form
type RegisterData struct {
	layout.PageData
	Form   validation.Candidate
	Errors *validation.Errors
}

// Leagues lists the selectable leagues
func (d RegisterData) Leagues() []model.League {
	return model.Leagues()
}

// Relationships lists the relationships valid for the chosen league, or all of them
func (d RegisterData) Relationships() []model.Relationship {
	if league := model.League(d.Form.League); league.Valid() {
		return league.Relationships()
	}
	return model.LeagueWomen.Relationships()
}

// Profiles lists the player profiles
func (d RegisterData) Profiles() []model.PlayerProfile {
	return model.Profiles()
}

// BattingStyles lists the batting styles
func (d RegisterData) BattingStyles() []model.BattingStyle {
	return model.BattingStyles()
}

// BowlingStyles lists the bowling styles
func (d RegisterData) BowlingStyles() []model.BowlingStyle {
	return model.BowlingStyles()
}

// NeedsBatting reports whether the chosen profile asks for a batting style
func (d RegisterData) NeedsBatting() bool {
	return validation.RuleFor(model.PlayerProfile(d.Form.Profile)).Batting
}

// NeedsBowling reports whether the chosen profile asks for a bowling style
func (d RegisterData) NeedsBowling() bool {
	return validation.RuleFor(model.PlayerProfile(d.Form.Profile)).Bowling
}

// ShowAvailability reports whether the fixture availability questions apply
func (d RegisterData) ShowAvailability() bool {
	return model.League(d.Form.League) == model.LeagueMen
}

// Register renders the registration form
func Register(data RegisterData) templ.Component {
	return withLayout(registerTemplate, data.PageData, data)
}

// SuccessData is the data for the registration confirmation
type SuccessData struct {
	layout.PageData
	PlayerName  string
	LeagueLabel string
}

// Success renders the registration confirmation
func Success(data SuccessData) templ.Component {
	return withLayout(successTemplate, data.PageData, data)
}

// LoginData is the data for the admin sign-in form
type LoginData struct {
	layout.PageData
	Username string
	Next     string // local path to return to after sign in
}

// Login renders the admin sign-in form
func Login(data LoginData) templ.Component {
	return withLayout(loginTemplate, data.PageData, data)
}

// DashboardData is the data for the admin dashboard
type DashboardData struct {
	layout.PageData
	Heading      string
	Criteria     roster.Criteria
	Partition    string
	Players      []*model.PlayerRegistration
	Count        int
	Total        int
	Stats        roster.Stats
	ExportURL    string
	RefreshURL   string
	EmptyMessage string
	Location     *time.Location
	Live         bool // dashboard subscribes to /admin/dashboard/events
}

// Leagues lists the league filter options
func (d DashboardData) Leagues() []model.League {
	return model.Leagues()
}

// Profiles lists the profile filter options
func (d DashboardData) Profiles() []model.PlayerProfile {
	return model.Profiles()
}

// Dashboard renders the admin dashboard
func Dashboard(data DashboardData) templ.Component {
	return withLayout(dashboardTemplate, data.PageData, data)
}

// NotFoundData is the data for the 404 page
type NotFoundData struct {
	layout.PageData
}

// NotFound renders the 404 page
func NotFound(data NotFoundData) templ.Component {
	return withLayout(notFoundTemplate, data.PageData, data)
}

// ErrorData is the data for the generic error page
type ErrorData struct {
	layout.PageData
	Message string
}

// Error renders the generic error page
func Error(data ErrorData) templ.Component {
	return withLayout(errorTemplate, data.PageData, data)
}

func availabilitySummary(p *model.PlayerRegistration) string {
	if p.League != model.LeagueMen {
		return export.NotApplicable
	}
	var days []string
	if p.Availability.Jan10 {
		days = append(days, "Jan 10")
	}
	if p.Availability.Jan11 {
		days = append(days, "Jan 11")
	}
	if p.Availability.Jan18 {
		days = append(days, "Jan 18")
	}
	if len(days) == 0 {
		return "None"
	}
	return strings.Join(days, ", ")
}
