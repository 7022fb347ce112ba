package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mcoot/cricketreg/internal/model"
	"github.com/mcoot/cricketreg/internal/services/registration"
	"github.com/mcoot/cricketreg/internal/services/validation"
	"github.com/mcoot/cricketreg/internal/web/middleware"
	"github.com/mcoot/cricketreg/internal/web/templates/layout"
	"github.com/mcoot/cricketreg/internal/web/templates/pages"
)

// RegisterHandler handles the registration form and confirmation
type RegisterHandler struct {
	registrations *registration.Service
	logger        *slog.Logger
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(registrations *registration.Service, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{
		registrations: registrations,
		logger:        logger,
	}
}

// Form renders an empty registration form
// ?league= and ?profile= preselect those fields
func (h *RegisterHandler) Form(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	form := validation.Candidate{League: query.Get("league")}.WithProfile(query.Get("profile"))

	h.renderForm(w, r, http.StatusOK, form, nil, middleware.GetFlash(r.Context()))
}

// Submit handles the registration form
// action=update re-renders the form for the chosen league and profile without validating
func (h *RegisterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, layout.FlashError, "Invalid form data")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	form := candidateFromForm(r.PostForm)

	if r.PostForm.Get("action") == "update" {
		h.renderForm(w, r, http.StatusOK, form.WithProfile(form.Profile), nil, nil)
		return
	}

	reg, err := h.registrations.Submit(r.Context(), form)
	if err != nil {
		var verrs *validation.Errors
		if errors.As(err, &verrs) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, form, verrs, nil)
			return
		}
		h.logger.Error("registration submit failed", "error", err)
		h.renderForm(w, r, http.StatusInternalServerError, form, nil, &layout.FlashMessage{
			Type:    layout.FlashError,
			Message: middleware.GenericErrorMessage,
		})
		return
	}

	http.Redirect(w, r, "/registration-success?id="+url.QueryEscape(string(reg.ID)), http.StatusSeeOther)
}

// Success renders the confirmation for a just-submitted registration
func (h *RegisterHandler) Success(w http.ResponseWriter, r *http.Request) {
	data := pages.SuccessData{
		PageData: layout.PageData{
			Title: "Registration Received",
			Flash: middleware.GetFlash(r.Context()),
		},
	}

	if id := r.URL.Query().Get("id"); id != "" {
		reg, err := h.registrations.Get(r.Context(), model.RegistrationID(id))
		switch {
		case err == nil:
			data.PlayerName = reg.PlayerName
			data.LeagueLabel = reg.League.Label()
		case !errors.Is(err, model.ErrRegistrationNotFound):
			h.logger.Warn("could not load registration for confirmation", "registration_id", id, "error", err)
		}
	}

	render(w, r, http.StatusOK, pages.Success(data))
}

func (h *RegisterHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form validation.Candidate, errs *validation.Errors, flash *layout.FlashMessage) {
	data := pages.RegisterData{
		PageData: layout.PageData{
			Title: "Register",
			Flash: flash,
		},
		Form:   form,
		Errors: errs,
	}
	render(w, r, status, pages.Register(data))
}

// candidateFromForm reads the registration fields from a posted form
func candidateFromForm(form url.Values) validation.Candidate {
	return validation.Candidate{
		League:         form.Get(validation.FieldLeague),
		RegistrantName: form.Get(validation.FieldRegistrantName),
		RegistrantCode: form.Get(validation.FieldRegistrantCode),
		PlayerName:     form.Get(validation.FieldPlayerName),
		Relationship:   form.Get(validation.FieldRelationship),
		DateOfBirth:    form.Get(validation.FieldDateOfBirth),
		ContactNumber:  form.Get(validation.FieldContactNumber),
		Profile:        form.Get(validation.FieldProfile),
		BattingStyle:   form.Get(validation.FieldBattingStyle),
		BowlingStyle:   form.Get(validation.FieldBowlingStyle),
		Availability: model.Availability{
			Jan10: checked(form, "available_on_jan_10_2026"),
			Jan11: checked(form, "available_on_jan_11_2026"),
			Jan18: checked(form, "available_on_jan_18_2026"),
		},
	}
}

func checked(form url.Values, name string) bool {
	switch form.Get(name) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}
