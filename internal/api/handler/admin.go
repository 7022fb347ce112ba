package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/cricketreg/internal/api/middleware"
	"github.com/mcoot/cricketreg/internal/api/request"
	"github.com/mcoot/cricketreg/internal/api/response"
	"github.com/mcoot/cricketreg/internal/services/admingate"
	"github.com/mcoot/cricketreg/internal/services/auth"
	"github.com/mcoot/cricketreg/internal/services/roster"
)

// AdminHandler handles admin session endpoints
type AdminHandler struct {
	authService *auth.Service
	gate        *admingate.Gate
	roster      *roster.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *auth.Service, gate *admingate.Gate, rosterService *roster.Service) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		gate:        gate,
		roster:      rosterService,
	}
}

// Login handles POST /api/v1/admin/login
// Any account may sign in; is_admin reports whether admin routes will accept the session
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	isAdmin, err := h.isAdmin(r, session)
	if err != nil {
		h.authService.SignOut(session.Token)
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoginResponse{
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
		User:         response.UserFromSession(session),
		IsAdmin:      isAdmin,
	})
}

// Logout handles POST /api/v1/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		WriteError(w, NewUnauthorizedError())
		return
	}

	h.authService.SignOut(session.Token)
	h.gate.Forget(session.Token)
	h.roster.Forget(session.Token)

	response.NoContent(w)
}

// GetMe handles GET /api/v1/admin/me
func (h *AdminHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		WriteError(w, NewUnauthorizedError())
		return
	}

	isAdmin, err := h.isAdmin(r, session)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MeResponse{
		User:    response.UserFromSession(session),
		IsAdmin: isAdmin,
	})
}

// isAdmin treats a denial as a plain false and anything else as an error
func (h *AdminHandler) isAdmin(r *http.Request, session *auth.Session) (bool, error) {
	_, err := h.gate.Check(r.Context(), session)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, admingate.ErrNotAdmin):
		return false, nil
	default:
		return false, err
	}
}
