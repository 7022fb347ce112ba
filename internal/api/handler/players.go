package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/cricketreg/internal/api/middleware"
	"github.com/mcoot/cricketreg/internal/api/response"
	"github.com/mcoot/cricketreg/internal/services/export"
	"github.com/mcoot/cricketreg/internal/services/roster"
)

// ExportCountHeader reports how many players an export contains
const ExportCountHeader = "X-Export-Count"

// PlayersHandler handles the admin roster endpoints
type PlayersHandler struct {
	roster *roster.Service
	export *export.Service
}

// NewPlayersHandler creates a new players handler
func NewPlayersHandler(rosterService *roster.Service, exportService *export.Service) *PlayersHandler {
	return &PlayersHandler{
		roster: rosterService,
		export: exportService,
	}
}

// List handles GET /api/v1/admin/players
func (h *PlayersHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.load(r, roster.ParseCriteria(r.URL.Query()))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayersFromResult(result))
}

// Stats handles GET /api/v1/admin/players/stats
// Only the league filter applies; stats always cover the whole partition
func (h *PlayersHandler) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.load(r, roster.Criteria{League: r.URL.Query().Get("league")})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result.Stats)
}

// Export handles GET /api/v1/admin/players/export
func (h *PlayersHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.load(r, roster.ParseCriteria(r.URL.Query()))
	if err != nil {
		WriteError(w, err)
		return
	}

	report, err := h.export.Build(result.Players, result.Partition)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set(ExportCountHeader, strconv.Itoa(report.Count))
	response.Attachment(w, export.ContentType, report.FileName, report.Data)
}

func (h *PlayersHandler) load(r *http.Request, c roster.Criteria) (*roster.Result, error) {
	access := middleware.MustGetAccess(r.Context())
	return h.roster.Load(r.Context(), access.Session.Token, c)
}
