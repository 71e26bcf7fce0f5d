package handlers

import (
	"net/http"

	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/tracker"
)

// DataHandler serves the loaded data set: meta, activities and reloads.
type DataHandler struct {
	svc *tracker.Service
}

func NewDataHandler(svc *tracker.Service) *DataHandler {
	return &DataHandler{svc: svc}
}

// Meta handles GET /api/v1/meta.
func (h *DataHandler) Meta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.svc.Meta(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, meta)
}

// Activities handles GET /api/v1/activities[?dimension=&level=&max_level=].
func (h *DataHandler) Activities(w http.ResponseWriter, r *http.Request) {
	level, ok := queryInt(w, r, "level")
	if !ok {
		return
	}
	maxLevel, ok := queryInt(w, r, "max_level")
	if !ok {
		return
	}

	activities, err := h.svc.Activities(r.Context(), tracker.ActivityQuery{
		Dimension: r.URL.Query().Get("dimension"),
		Level:     level,
		MaxLevel:  maxLevel,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, activities)
}

// ActivityResponse is an activity with its markdown texts optionally
// rendered to HTML.
type ActivityResponse struct {
	*model.Activity
	HTML map[string]string `json:"html,omitempty"`
}

// Activity handles GET /api/v1/activities/{uuid}[?html=true].
func (h *DataHandler) Activity(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Activity(r.Context(), urlParam(r, "uuid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := ActivityResponse{Activity: a}
	if queryBool(r, "html") {
		resp.HTML, err = renderActivity(a)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}
	WriteJSONOK(w, resp)
}

func renderActivity(a *model.Activity) (map[string]string, error) {
	texts := map[string]model.MarkdownText{
		"description":         a.Description,
		"risk":                a.Risk,
		"measure":             a.Measure,
		"implementationGuide": a.ImplementationGuide,
		"comments":            a.Comments,
		"evidence":            a.Evidence,
		"assessment":          a.Assessment,
	}
	out := make(map[string]string, len(texts))
	for field, text := range texts {
		if text == "" {
			continue
		}
		html, err := text.HTML()
		if err != nil {
			return nil, err
		}
		out[field] = html
	}
	return out, nil
}

// Reload handles POST /api/v1/reload.
func (h *DataHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Reload(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	meta, err := h.svc.Meta(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, meta)
}
