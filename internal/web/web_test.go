package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cricketreg/internal/factory"
	"github.com/mcoot/cricketreg/internal/storage/memory"
	"github.com/mcoot/cricketreg/internal/testutil"
	"github.com/mcoot/cricketreg/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	flaky   *testutil.FlakyStorage
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	flaky := testutil.NewFlakyStorage(memory.New())
	app := factory.NewTestAppWithStorage(flaky)
	t.Cleanup(func() { _ = app.Close() })

	router := web.NewRouter(web.RouterConfig{
		Logger:              testutil.NopLogger(),
		RegistrationService: app.RegistrationService,
		RosterService:       app.RosterService,
		ExportService:       app.ExportService,
		AuthService:         app.AuthService,
		AdminGate:           app.AdminGate,
		RegistrationFeed:    app.RegistrationFeed,
		StaticDir:           "", // No static files in tests
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		flaky:   flaky,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

// signInAdmin creates an allow-listed admin and signs in through the form
func (ts *webTestServer) signInAdmin(username string) {
	ts.t.Helper()
	_, err := ts.app.CreateAdmin(ts.t.Context(), username)
	require.NoError(ts.t, err)

	form := url.Values{"username": {username}, "password": {factory.TestAdminPassword}}
	rr := ts.post("/admin/login", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after sign in")
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")
}

// seed submits a registration through the public form
func (ts *webTestServer) seed(form url.Values) {
	ts.t.Helper()
	rr := ts.post("/register", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after registration")
	// Drop the flash of the seeding request
	delete(ts.cookies.cookies, "flash")
	// Keep registration times distinct so newest-first order is deterministic
	ts.app.MockClock.Advance(time.Minute)
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// menForm is a valid men's league self registration
func menForm(name, code string) url.Values {
	return url.Values{
		"league":                   {"men"},
		"club_member_name":         {name},
		"code_number":              {code},
		"player_name":              {name},
		"relationship":             {"Self"},
		"date_of_birth":            {"1990-05-04"},
		"contact":                  {"9876543210"},
		"player_profile":           {"Batter"},
		"batting_style":            {"Right"},
		"available_on_jan_10_2026": {"true"},
	}
}

// womenWardForm is a valid women's league ward registration
func womenWardForm(registrant, player, code string) url.Values {
	return url.Values{
		"league":           {"women"},
		"club_member_name": {registrant},
		"code_number":      {code},
		"player_name":      {player},
		"relationship":     {"Ward"},
		"date_of_birth":    {"2011-03-15"},
		"contact":          {"9123456780"},
		"player_profile":   {"Bowler"},
		"bowling_style":    {"Right Spin"},
	}
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
