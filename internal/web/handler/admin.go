package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/admingate"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/services/export"
	"github.com/mcoot/cricketreg/internal/services/roster"
	"github.com/mcoot/cricketreg/internal/web/middleware"
	"github.com/mcoot/cricketreg/internal/web/sse"
	"github.com/mcoot/cricketreg/internal/web/templates/layout"
	"github.com/mcoot/cricketreg/internal/web/templates/pages"
)

// RosterRefreshingMessage is shown when another tab's load overtook this request
const RosterRefreshingMessage = "The roster is being refreshed in another tab. Reload to see it."

// AdminHandler handles admin sign-in and the dashboard
type AdminHandler struct {
	authService *auth.Service
	gate        *admingate.Gate
	roster      *roster.Service
	export      *export.Service
	feed        *sse.Hub
	logger      *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(authService *auth.Service, gate *admingate.Gate, rosterService *roster.Service, exportService *export.Service, feed *sse.Hub, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		gate:        gate,
		roster:      rosterService,
		export:      exportService,
		feed:        feed,
		logger:      logger,
	}
}

// LoginPage renders the admin sign-in form
func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		if _, err := h.gate.Check(r.Context(), session); err == nil {
			// Already signed in as an admin
			http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
			return
		}
	}

	h.renderLogin(w, r, http.StatusOK, "", middleware.GetFlash(r.Context()))
}

// Login handles the sign-in form
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, "", &layout.FlashMessage{Type: layout.FlashError, Message: "Invalid form data"})
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	next := safeNext(r.URL.Query().Get("next"), "/admin/dashboard")

	if username == "" || password == "" {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, username, &layout.FlashMessage{Type: layout.FlashError, Message: "Username and password are required"})
		return
	}

	session, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.renderLogin(w, r, http.StatusUnauthorized, username, &layout.FlashMessage{Type: layout.FlashError, Message: "Invalid username or password"})
			return
		}
		h.logger.Error("admin login failed", "error", err)
		h.renderLogin(w, r, http.StatusInternalServerError, username, &layout.FlashMessage{Type: layout.FlashError, Message: middleware.GenericErrorMessage})
		return
	}

	if _, err := h.gate.Check(r.Context(), session); err != nil {
		h.authService.SignOut(session.Token)
		if errors.Is(err, admingate.ErrNotAdmin) {
			middleware.SetFlash(w, layout.FlashError, middleware.NotAdminMessage)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.renderLogin(w, r, http.StatusServiceUnavailable, username, &layout.FlashMessage{Type: layout.FlashError, Message: middleware.GenericErrorMessage})
		return
	}

	middleware.SetSessionCookie(w, session)
	middleware.SetFlash(w, layout.FlashSuccess, "Welcome, "+session.Username+"!")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout ends the session
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.SignOut(session.Token)
		h.gate.Forget(session.Token)
		h.roster.Forget(session.Token)
	}

	middleware.ClearSessionCookie(w)
	middleware.SetFlash(w, layout.FlashInfo, "You have been signed out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Dashboard renders the filtered roster with role statistics
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	access := mustAccess(r)
	criteria := roster.ParseCriteria(r.URL.Query())

	data := pages.DashboardData{
		PageData: layout.PageData{
			Title: "Dashboard",
			Flash: middleware.GetFlash(r.Context()),
			Admin: &access.Identity,
		},
		Heading:    DashboardHeading(criteria.Partition()),
		Criteria:   criteria,
		Partition:  string(criteria.Partition()),
		ExportURL:  withQuery("/admin/dashboard/export", criteria),
		RefreshURL: withQuery("/admin/dashboard", criteria),
		Location:   h.export.Location(),
		Live:       h.feed != nil,
	}

	result, err := h.loadRoster(r, access, criteria)
	if errors.Is(err, roster.ErrSuperseded) {
		data.Flash = &layout.FlashMessage{Type: layout.FlashInfo, Message: RosterRefreshingMessage}
		data.EmptyMessage = "Players are still loading."
		render(w, r, http.StatusOK, pages.Dashboard(data))
		return
	}
	if err != nil {
		h.logger.Warn("dashboard roster load failed", "error", err)
		data.Flash = &layout.FlashMessage{Type: layout.FlashError, Message: middleware.GenericErrorMessage}
		data.EmptyMessage = "Players could not be loaded."
		render(w, r, http.StatusServiceUnavailable, pages.Dashboard(data))
		return
	}

	data.Players = result.Players
	data.Count = len(result.Players)
	data.Total = result.Total
	data.Stats = result.Stats
	data.EmptyMessage = emptyMessage(result)

	render(w, r, http.StatusOK, pages.Dashboard(data))
}

// Export downloads the filtered roster as a workbook
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	access := mustAccess(r)
	criteria := roster.ParseCriteria(r.URL.Query())
	back := withQuery("/admin/dashboard", criteria)

	result, err := h.loadRoster(r, access, criteria)
	if errors.Is(err, roster.ErrSuperseded) {
		middleware.SetFlash(w, layout.FlashInfo, RosterRefreshingMessage)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	if err != nil {
		h.logger.Warn("export roster load failed", "error", err)
		middleware.SetFlash(w, layout.FlashError, middleware.GenericErrorMessage)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if len(result.Players) == 0 {
		middleware.SetFlash(w, layout.FlashInfo, "There are no players to export.")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	report, err := h.export.Build(result.Players, result.Partition)
	if err != nil {
		middleware.SetFlash(w, layout.FlashError, middleware.GenericErrorMessage)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, layout.FlashSuccess, fmt.Sprintf("Exported %d players to %s", report.Count, report.FileName))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.Data)
}

// Events streams new registrations to the dashboard
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	access := mustAccess(r)
	if h.feed == nil {
		http.NotFound(w, r)
		return
	}
	sse.ServeSSE(w, r, h.feed, access.Identity.Username)
}

// loadRoster loads the session's roster
// When a newer load for the same session overtakes this one, the newer roster is used if it
// covers the same league
func (h *AdminHandler) loadRoster(r *http.Request, access admingate.Access, c roster.Criteria) (*roster.Result, error) {
	result, err := h.roster.Load(r.Context(), access.Session.Token, c)
	if !errors.Is(err, roster.ErrSuperseded) {
		return result, err
	}
	if settled, ok := h.roster.Settled(access.Session.Token, c); ok {
		return settled, nil
	}
	h.logger.Debug("roster load overtaken by another request", "league", c.Partition())
	return nil, err
}

func (h *AdminHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, username string, flash *layout.FlashMessage) {
	data := pages.LoginData{
		PageData: layout.PageData{
			Title: "Admin Sign In",
			Flash: flash,
		},
		Username: username,
		Next:     safeNext(r.URL.Query().Get("next"), ""),
	}
	render(w, r, status, pages.Login(data))
}

func mustAccess(r *http.Request) admingate.Access {
	access, ok := middleware.GetAccess(r.Context())
	if !ok {
		panic("no admin access in context - admin middleware not applied?")
	}
	return access
}

// DashboardHeading titles the dashboard for a partition
func DashboardHeading(partition model.League) string {
	switch {
	case partition == "":
		return "All Player Registrations"
	case partition.Valid():
		return partition.Label() + " Player Registrations"
	default:
		return "Player Registrations"
	}
}

func emptyMessage(result *roster.Result) string {
	if result.Total == 0 {
		return "No players have registered yet."
	}
	return "No players match your filters."
}

func withQuery(path string, c roster.Criteria) string {
	if encoded := c.Values().Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
