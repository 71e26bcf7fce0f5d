package handlers

import (
	"bytes"
	"net/http"

	"github.com/marmos91/dsomm/pkg/render"
	"github.com/marmos91/dsomm/pkg/tracker"
)

// HeatmapHandler serves the circular heatmap as JSON or SVG.
type HeatmapHandler struct {
	svc *tracker.Service
}

func NewHeatmapHandler(svc *tracker.Service) *HeatmapHandler {
	return &HeatmapHandler{svc: svc}
}

// Get handles GET /api/v1/heatmap?team=..&group=..&teams=..&max_level=..[&format=svg&theme=dark].
func (h *HeatmapHandler) Get(w http.ResponseWriter, r *http.Request) {
	maxLevel, ok := queryInt(w, r, "max_level")
	if !ok {
		return
	}
	q := r.URL.Query()

	hm, err := h.svc.Heatmap(r.Context(), tracker.HeatmapQuery{
		Team:     q.Get("team"),
		Group:    q.Get("group"),
		Teams:    queryList(r, "teams"),
		MaxLevel: maxLevel,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch q.Get("format") {
	case "", "json":
		WriteJSONOK(w, hm)
	case "svg":
		theme, err := render.ThemeByName(q.Get("theme"))
		if err != nil {
			BadRequest(w, err.Error())
			return
		}
		cfg := render.DefaultConfig()
		cfg.Theme = theme

		var buf bytes.Buffer
		if err := render.HeatmapSVG(&buf, hm, cfg); err != nil {
			UnprocessableEntity(w, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	default:
		BadRequest(w, "Unsupported format")
	}
}
