package handlers

import (
	"net/http"
	"strings"

	"github.com/marmos91/dsomm/pkg/tracker"
)

// ProgressHandler reads and edits team progress.
type ProgressHandler struct {
	svc *tracker.Service
}

func NewProgressHandler(svc *tracker.Service) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// SetProgressRequest moves a team to a progress state.
type SetProgressRequest struct {
	Title string `json:"title"`
}

// List handles GET /api/v1/progress.
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Progress(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, p)
}

// Export handles GET /api/v1/progress/export.
func (h *ProgressHandler) Export(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ExportProgressYAML(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeText(w, "application/yaml", out)
}

// Set handles PUT /api/v1/progress/{uuid}/{team}.
func (h *ProgressHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetProgressRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		BadRequest(w, "Progress title required")
		return
	}

	uuid, team := urlParam(r, "uuid"), urlParam(r, "team")
	if err := h.svc.SetProgress(r.Context(), uuid, team, req.Title); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.svc.Progress(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, p[uuid][team])
}

// Delete handles DELETE /api/v1/progress, forgetting every stored edit.
func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteStoredProgress(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	WriteNoContent(w)
}
