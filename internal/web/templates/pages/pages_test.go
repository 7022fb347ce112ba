package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/roster"
	"github.com/mcoot/cricketreg/internal/services/validation"
	"github.com/mcoot/cricketreg/internal/web/templates/layout"
)

func renderDoc(t *testing.T, render func(context.Context, *bytes.Buffer) error) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestRegisterShowsFieldErrors(t *testing.T) {
	errs := validation.NewErrors()
	errs.Add(validation.FieldContactNumber, "Contact number must be exactly 10 digits")

	data := RegisterData{
		PageData: layout.PageData{Title: "Register"},
		Form:     validation.Candidate{League: "women", Profile: "Wicket Keeper"},
		Errors:   errs,
	}
	doc := renderDoc(t, func(ctx context.Context, buf *bytes.Buffer) error {
		return Register(data).Render(ctx, buf)
	})

	assert.Equal(t, 1, doc.Find("#form-errors").Length())
	assert.Equal(t, "Contact number must be exactly 10 digits", doc.Find(".field-error").Text())
	assert.Equal(t, 1, doc.Find("#batting_style").Length())
	assert.Equal(t, 1, doc.Find("#bowling_style").Length())
	// Availability is a men's league question
	assert.Equal(t, 0, doc.Find("#availability").Length())
}

func TestDashboardRendersRows(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	players := []*model.PlayerRegistration{
		{
			ID:             "r2",
			League:         model.LeagueWomen,
			RegistrantName: "Anjali Rao",
			RegistrantCode: 2002,
			PlayerName:     "Meera Rao",
			Relationship:   model.RelationshipWard,
			DateOfBirth:    time.Date(2011, 3, 15, 0, 0, 0, 0, time.UTC),
			Profile:        model.ProfileBowler,
			BowlingStyle:   model.BowlingRightSpin,
			CreatedAt:      time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:             "r1",
			League:         model.LeagueMen,
			RegistrantName: "Rahul Dravid",
			RegistrantCode: 1001,
			PlayerName:     "Rahul Dravid",
			Relationship:   model.RelationshipSelf,
			DateOfBirth:    time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC),
			Profile:        model.ProfileBatter,
			BattingStyle:   model.BattingRight,
			Availability:   model.Availability{Jan10: true, Jan18: true},
			CreatedAt:      time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC),
		},
	}

	data := DashboardData{
		PageData: layout.PageData{
			Title: "Dashboard",
			Admin: &model.AdminIdentity{Username: "captain", IsAdmin: true},
		},
		Heading:  "All Player Registrations",
		Players:  players,
		Count:    2,
		Total:    2,
		Stats:    roster.ComputeStats(players),
		Location: ist,
	}
	doc := renderDoc(t, func(ctx context.Context, buf *bytes.Buffer) error {
		return Dashboard(data).Render(ctx, buf)
	})

	rows := doc.Find("tr.player")
	require.Equal(t, 2, rows.Length())

	women := rows.Eq(0).Find("td")
	assert.Equal(t, "Meera Rao", rows.Eq(0).Find(".player-name").Text())
	assert.Equal(t, "15/03/2011", women.Eq(5).Text())
	assert.Equal(t, "N/A", women.Eq(8).Text())
	assert.Equal(t, "Right Spin", women.Eq(9).Text())
	assert.Equal(t, "N/A", women.Eq(10).Text())
	assert.Equal(t, "01/12/2025 14:30:00", women.Eq(11).Text())

	men := rows.Eq(1).Find("td")
	assert.Equal(t, "Jan 10, Jan 18", men.Eq(10).Text())

	assert.Contains(t, doc.Find(".admin-name").Text(), "captain")
	assert.Equal(t, 0, doc.Find("#empty-state").Length())
}

func TestDashboardEmptyState(t *testing.T) {
	data := DashboardData{
		PageData:     layout.PageData{Title: "Dashboard"},
		Heading:      "Men's Player Registrations",
		Partition:    "men",
		EmptyMessage: "No players have registered yet.",
	}
	doc := renderDoc(t, func(ctx context.Context, buf *bytes.Buffer) error {
		return Dashboard(data).Render(ctx, buf)
	})

	assert.Equal(t, "No players have registered yet.", doc.Find("#empty-state").Text())
	assert.Equal(t, 1, doc.Find("#league-filter option[value='men'][selected]").Length())
}

func TestDashboardLiveBanner(t *testing.T) {
	render := func(live bool) *goquery.Document {
		data := DashboardData{
			PageData:   layout.PageData{Title: "Dashboard"},
			RefreshURL: "/admin/dashboard?league=women",
			Live:       live,
		}
		return renderDoc(t, func(ctx context.Context, buf *bytes.Buffer) error {
			return Dashboard(data).Render(ctx, buf)
		})
	}

	doc := render(true)
	banner := doc.Find("#live-banner")
	require.Equal(t, 1, banner.Length())
	_, hidden := banner.Attr("hidden")
	assert.True(t, hidden)
	href, _ := doc.Find("#live-refresh").Attr("href")
	assert.Equal(t, "/admin/dashboard?league=women", href)
	assert.Equal(t, 1, doc.Find(`script[src="/static/js/dashboard.js"]`).Length())

	assert.Equal(t, 0, render(false).Find("#live-banner").Length())
}

func TestFlashRendersInLayout(t *testing.T) {
	data := HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: &layout.FlashMessage{Type: layout.FlashError, Message: "You are not an authorized admin."},
		},
	}
	doc := renderDoc(t, func(ctx context.Context, buf *bytes.Buffer) error {
		return Home(data).Render(ctx, buf)
	})

	assert.Equal(t, "You are not an authorized admin.", doc.Find(".flash-error").Text())
}
