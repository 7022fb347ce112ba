package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mcoot/cricketreg/internal/api"
	"github.com/mcoot/cricketreg/internal/api/apierr"
	"github.com/mcoot/cricketreg/internal/api/handler"
	"github.com/mcoot/cricketreg/internal/api/response"
	"github.com/mcoot/cricketreg/internal/factory"
	"github.com/mcoot/cricketreg/internal/services/export"
	"github.com/mcoot/cricketreg/internal/services/roster"
	"github.com/mcoot/cricketreg/internal/storage/memory"
	"github.com/mcoot/cricketreg/internal/testutil"
)

// testServer wires the API router over a test app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
	flaky   *testutil.FlakyStorage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	flaky := testutil.NewFlakyStorage(memory.New())
	app := factory.NewTestAppWithStorage(flaky)

	router := api.NewRouter(api.RouterConfig{
		Logger:              testutil.NopLogger(),
		RegistrationService: app.RegistrationService,
		RosterService:       app.RosterService,
		ExportService:       app.ExportService,
		AuthService:         app.AuthService,
		AdminGate:           app.AdminGate,
	})

	return &testServer{
		handler: router,
		app:     app,
		flaky:   flaky,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		encoded, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(encoded)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// login signs in and returns the session token
func (ts *testServer) login(t *testing.T, username string) response.LoginResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": username,
		"password": factory.TestAdminPassword,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	_, err := ts.app.CreateAdmin(context.Background(), "organiser")
	require.NoError(t, err)
	return ts.login(t, "organiser").SessionToken
}

func (ts *testServer) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := ts.app.RegistrationService.Submit(ctx, factory.MenCandidate("Ravi Kumar", "1042"))
	require.NoError(t, err)
	ts.app.MockClock.Advance(time.Minute)
	_, err = ts.app.RegistrationService.Submit(ctx, factory.WomenWardCandidate("Priya Sharma", "Ananya Sharma", "2077"))
	require.NoError(t, err)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handler.APIError {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func registrationBody() map[string]any {
	return map[string]any{
		"league":                   "men",
		"club_member_name":         "Ravi Kumar",
		"code_number":              1042,
		"player_name":              "Ravi Kumar",
		"relationship":             "Self",
		"date_of_birth":            "1990-05-04",
		"contact":                  "9876543210",
		"player_profile":           "Batting Allrounder",
		"batting_style":            "Left",
		"bowling_style":            "Right Spin",
		"available_on_jan_10_2026": true,
		"available_on_jan_18_2026": true,
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestSubmitRegistration(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockIDs.Queue("reg-1")

	rr := ts.request(http.MethodPost, "/api/v1/registrations", registrationBody(), "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var reg response.Registration
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reg))
	assert.Equal(t, "reg-1", reg.ID)
	assert.Equal(t, "men", reg.League)
	assert.Equal(t, 1042, reg.CodeNumber)
	require.NotNil(t, reg.BattingStyle)
	assert.Equal(t, "Left", *reg.BattingStyle)
	require.NotNil(t, reg.Availability)
	assert.True(t, reg.Availability.Jan10)
	assert.False(t, reg.Availability.Jan11)
	assert.Equal(t, factory.TestStart, reg.CreatedAt.UTC())
}

func TestSubmitRegistrationAcceptsStringCode(t *testing.T) {
	ts := newTestServer(t)

	body := registrationBody()
	body["code_number"] = "1042"
	rr := ts.request(http.MethodPost, "/api/v1/registrations", body, "")
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestSubmitRegistrationValidationFailure(t *testing.T) {
	ts := newTestServer(t)

	body := registrationBody()
	body["relationship"] = "Ward"
	body["code_number"] = "abc"
	body["player_profile"] = "Wicket Keeper"
	body["bowling_style"] = ""
	rr := ts.request(http.MethodPost, "/api/v1/registrations", body, "")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, handler.CodeValidationFailed, apiErr.Code)
	assert.Equal(t, []string{"Code number must be a number"}, apiErr.Fields["code_number"])
	assert.Equal(t, []string{"Ward is not a valid relationship in the Men's league"}, apiErr.Fields["relationship"])
	assert.Equal(t, []string{"Bowling style is required for a Wicket Keeper"}, apiErr.Fields["bowling_style"])
	assert.NotContains(t, apiErr.Fields, "batting_style")

	regs, err := ts.app.Storage.ListRegistrations(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, regs)
}

func TestSubmitRegistrationMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/registrations", `{"league":`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, handler.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestSubmitRegistrationStorageFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.flaky.FailWrites = true

	rr := ts.request(http.MethodPost, "/api/v1/registrations", registrationBody(), "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, handler.CodeInternalError, decodeError(t, rr).Code)
}

func TestAdminLoginAndMe(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.app.CreateAdmin(context.Background(), "organiser")
	require.NoError(t, err)

	login := ts.login(t, "organiser")
	assert.True(t, login.IsAdmin)
	assert.Equal(t, "organiser", login.User.Username)
	assert.NotEmpty(t, login.SessionToken)

	rr := ts.request(http.MethodGet, "/api/v1/admin/me", nil, login.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var me response.MeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.True(t, me.IsAdmin)
	assert.Equal(t, login.User, me.User)
}

func TestAdminLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.app.CreateAdmin(context.Background(), "organiser")
	require.NoError(t, err)

	rr := ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": "organiser",
		"password": "not-the-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, handler.CodeInvalidCredentials, decodeError(t, rr).Code)
}

func TestNonAdminIsForbidden(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.app.CreateUser(context.Background(), "spectator")
	require.NoError(t, err)

	login := ts.login(t, "spectator")
	assert.False(t, login.IsAdmin)

	rr := ts.request(http.MethodGet, "/api/v1/admin/players", nil, login.SessionToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, handler.CodeNotAdmin, decodeError(t, rr).Code)
}

func TestPlayersRequireSession(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/v1/admin/players",
		"/api/v1/admin/players/stats",
		"/api/v1/admin/players/export",
		"/api/v1/admin/me",
	} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := ts.request(http.MethodGet, "/api/v1/admin/players", nil, "sess_forged")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListPlayers(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t)
	token := ts.adminToken(t)

	rr := ts.request(http.MethodGet, "/api/v1/admin/players", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var players response.Players
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Equal(t, roster.All, players.League)
	assert.Equal(t, 2, players.Count)
	assert.Equal(t, 2, players.Total)
	require.Len(t, players.Players, 2)
	assert.Equal(t, "Ananya Sharma", players.Players[0].PlayerName)
	assert.Nil(t, players.Players[0].Availability)
	assert.Nil(t, players.Players[0].BattingStyle)
	assert.Equal(t, roster.Stats{Total: 2, Batters: 1, Bowlers: 1}, players.Stats)
}

func TestListPlayersFiltered(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t)
	token := ts.adminToken(t)

	rr := ts.request(http.MethodGet, "/api/v1/admin/players?q=1042", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var players response.Players
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Equal(t, 1, players.Count)
	assert.Equal(t, 2, players.Total)
	assert.Equal(t, "Ravi Kumar", players.Players[0].PlayerName)

	rr = ts.request(http.MethodGet, "/api/v1/admin/players?league=women&profile=Batter", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	players = response.Players{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &players))
	assert.Equal(t, "women", players.League)
	assert.Equal(t, 0, players.Count)
	assert.Empty(t, players.Players)
	assert.Equal(t, 1, players.Total)
}

func TestPlayerStats(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t)
	token := ts.adminToken(t)

	rr := ts.request(http.MethodGet, "/api/v1/admin/players/stats?league=men&q=nobody", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats roster.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, roster.Stats{Total: 1, Batters: 1}, stats)
}

func TestExportPlayers(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t)
	token := ts.adminToken(t)

	rr := ts.request(http.MethodGet, "/api/v1/admin/players/export?league=men", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, export.ContentType, rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="men_players_2025-12-01.xlsx"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", rr.Header().Get(handler.ExportCountHeader))

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("MEN Players")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, export.Headers("men"), rows[0])
	assert.Equal(t, "Ravi Kumar", rows[1][3])
}

func TestExportUnknownLeagueIsEmpty(t *testing.T) {
	ts := newTestServer(t)
	ts.seed(t)
	token := ts.adminToken(t)

	for _, league := range []string{"a/b", "what?", strings.Repeat("x", 40)} {
		rr := ts.request(http.MethodGet, "/api/v1/admin/players/export?league="+url.QueryEscape(league), nil, token)
		require.Equal(t, http.StatusOK, rr.Code, league)
		assert.Equal(t, "0", rr.Header().Get(handler.ExportCountHeader), league)
		assert.Equal(t, `attachment; filename="unknown_players_2025-12-01.xlsx"`, rr.Header().Get("Content-Disposition"), league)

		f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
		require.NoError(t, err)
		rows, err := f.GetRows("UNKNOWN Players")
		require.NoError(t, err)
		assert.Len(t, rows, 1, league)
		_ = f.Close()
	}
}

func TestGetRegistration(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockIDs.Queue("reg-ravi")
	ts.seed(t)
	token := ts.adminToken(t)

	rr := ts.request(http.MethodGet, "/api/v1/admin/registrations/reg-ravi", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	var reg response.Registration
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reg))
	assert.Equal(t, "Ravi Kumar", reg.PlayerName)

	rr = ts.request(http.MethodGet, "/api/v1/admin/registrations/missing", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, handler.CodeNotFound, decodeError(t, rr).Code)
}

func TestLogoutEndsSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t)

	rr := ts.request(http.MethodPost, "/api/v1/admin/logout", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/admin/players", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestExpiredSessionRejected(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t)

	ts.app.MockClock.Advance(ts.app.AuthService.SessionDuration() + time.Second)

	rr := ts.request(http.MethodGet, "/api/v1/admin/players", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, handler.CodeUnauthorized, decodeError(t, rr).Code)
}

func TestAllowListUnavailable(t *testing.T) {
	ts := newTestServer(t)
	_, err := ts.app.CreateAdmin(context.Background(), "organiser")
	require.NoError(t, err)
	ts.flaky.FailAllowList = true

	rr := ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"username": "organiser",
		"password": factory.TestAdminPassword,
	}, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, handler.CodeServiceUnavailable, decodeError(t, rr).Code)
	assert.Equal(t, 0, ts.app.AuthService.ActiveSessions())
}

func TestRosterUnavailable(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t)
	ts.flaky.FailReads = true

	rr := ts.request(http.MethodGet, "/api/v1/admin/players", nil, token)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, apierr.CodeServiceUnavailable, decodeError(t, rr).Code)
}
