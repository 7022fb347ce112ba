package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/cricketreg/internal/middleware"
	"github.com/mcoot/cricketreg/internal/web/templates/layout"
	"github.com/mcoot/cricketreg/internal/web/templates/pages"
)

// GenericErrorMessage is shown when a request fails for reasons the user cannot fix
const GenericErrorMessage = "Something went wrong, please try again."

// Recovery creates panic recovery middleware for the web interface
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	RenderError(w, r, http.StatusInternalServerError, GenericErrorMessage)
}

// RenderError writes the generic error page with status
func RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := pages.ErrorData{
		PageData: layout.PageData{Title: "Error"},
		Message:  message,
	}
	if err := pages.Error(data).Render(r.Context(), w); err != nil {
		_, _ = w.Write([]byte(message))
	}
}
