package handlers

import (
	"net/http"

	"github.com/marmos91/dsomm/pkg/tracker"
	"github.com/marmos91/dsomm/pkg/views"
)

// MatrixHandler serves the activity matrix and its stored chip selection.
type MatrixHandler struct {
	svc *tracker.Service
}

func NewMatrixHandler(svc *tracker.Service) *MatrixHandler {
	return &MatrixHandler{svc: svc}
}

// Get handles GET /api/v1/matrix?tag=..&dimension=..
//
// Without tag and dimension parameters the stored selection applies.
func (h *MatrixHandler) Get(w http.ResponseWriter, r *http.Request) {
	var sel *views.MatrixSelection
	tags, dims := queryList(r, "tag"), queryList(r, "dimension")
	if len(tags) > 0 || len(dims) > 0 {
		sel = &views.MatrixSelection{Tags: tags, Dimensions: dims}
	}

	m, err := h.svc.Matrix(r.Context(), sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, m)
}

// GetFilters handles GET /api/v1/matrix/filters.
func (h *MatrixHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	sel, err := h.svc.MatrixFilters(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, sel)
}

// SetFilters handles PUT /api/v1/matrix/filters.
func (h *MatrixHandler) SetFilters(w http.ResponseWriter, r *http.Request) {
	var sel views.MatrixSelection
	if !decodeJSONBody(w, r, &sel) {
		return
	}
	if err := h.svc.SetMatrixFilters(r.Context(), sel); err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, sel)
}
