package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cricketreg/internal/api/request"
	"github.com/mcoot/cricketreg/internal/api/response"
	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/registration"
)

const maxBodyBytes = 64 << 10

// RegistrationHandler handles registration endpoints
type RegistrationHandler struct {
	registrations *registration.Service
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrations *registration.Service) *RegistrationHandler {
	return &RegistrationHandler{
		registrations: registrations,
	}
}

// Submit handles POST /api/v1/registrations
func (h *RegistrationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.RegistrationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	reg, err := h.registrations.Submit(r.Context(), req.Candidate())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegistrationFromModel(reg))
}

// Get handles GET /api/v1/admin/registrations/{id}
func (h *RegistrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.RegistrationID(mux.Vars(r)["id"])

	reg, err := h.registrations.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RegistrationFromModel(reg))
}
