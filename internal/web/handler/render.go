package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/cricketreg/internal/web/middleware"
)

// render writes component as an HTML page with status
// The page is rendered to a buffer first so a template failure still yields a clean error page
func render(w http.ResponseWriter, r *http.Request, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		middleware.RenderError(w, r, http.StatusInternalServerError, middleware.GenericErrorMessage)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// safeNext returns next if it is a local path, otherwise fallback
func safeNext(next, fallback string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return fallback
}
