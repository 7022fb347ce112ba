package handler

import (
	"net/http"

	"github.com/mcoot/cricketreg/internal/web/middleware"
	"github.com/mcoot/cricketreg/internal/web/templates/layout"
	"github.com/mcoot/cricketreg/internal/web/templates/pages"
)

// HomeHandler handles the landing and not-found pages
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home renders the landing page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: middleware.GetFlash(r.Context()),
		},
	}

	render(w, r, http.StatusOK, pages.Home(data))
}

// NotFound renders the 404 page for any unmatched route
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := pages.NotFoundData{
		PageData: layout.PageData{Title: "Not Found"},
	}

	render(w, r, http.StatusNotFound, pages.NotFound(data))
}
