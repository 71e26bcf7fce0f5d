package handlers

import (
	"net/http"

	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/tracker"
)

// TeamsHandler serves teams, groups and their summaries.
type TeamsHandler struct {
	svc *tracker.Service
}

func NewTeamsHandler(svc *tracker.Service) *TeamsHandler {
	return &TeamsHandler{svc: svc}
}

// List handles GET /api/v1/teams.
func (h *TeamsHandler) List(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Teams(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, doc)
}

// Update handles PUT /api/v1/teams. The body replaces all teams and groups;
// teams renamed in place keep their progress.
func (h *TeamsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var doc model.TeamsDocument
	if !decodeJSONBody(w, r, &doc) {
		return
	}
	if err := h.svc.UpdateTeamsAndGroups(r.Context(), doc); err != nil {
		writeError(w, r, err)
		return
	}
	h.List(w, r)
}

// Reset handles DELETE /api/v1/teams.
func (h *TeamsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetTeamsAndGroups(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	h.List(w, r)
}

// Export handles GET /api/v1/teams/export.
func (h *TeamsHandler) Export(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ExportTeamsYAML(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, "application/yaml", out)
}

// TeamSummary handles GET /api/v1/teams/{name}/summary.
func (h *TeamsHandler) TeamSummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.TeamSummary(r.Context(), urlParam(r, "name"), "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, s)
}

// GroupSummary handles GET /api/v1/groups/{name}/summary.
func (h *TeamsHandler) GroupSummary(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	if name == "" {
		BadRequest(w, "Group name required")
		return
	}
	s, err := h.svc.TeamSummary(r.Context(), "", name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, s)
}
