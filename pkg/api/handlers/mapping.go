package handlers

import (
	"net/http"
	"strings"

	"github.com/marmos91/dsomm/pkg/tracker"
	"github.com/marmos91/dsomm/pkg/views"
)

// MappingHandler serves the activity to SAMM and ISO 27001 mapping.
type MappingHandler struct {
	svc *tracker.Service
}

func NewMappingHandler(svc *tracker.Service) *MappingHandler {
	return &MappingHandler{svc: svc}
}

// Get handles GET /api/v1/mapping?q=..&sort=..&max_level=..&format=csv.
// The q parameter holds space separated search terms that must all match.
func (h *MappingHandler) Get(w http.ResponseWriter, r *http.Request) {
	mode, err := views.ParseSortMode(r.URL.Query().Get("sort"))
	if err != nil {
		BadRequest(w, err.Error())
		return
	}
	maxLevel, ok := queryInt(w, r, "max_level")
	if !ok {
		return
	}

	var terms []string
	for _, q := range r.URL.Query()["q"] {
		terms = append(terms, strings.Fields(q)...)
	}

	rows, err := h.svc.Mapping(r.Context(), tracker.MappingQuery{Terms: terms, Sort: mode, MaxLevel: maxLevel})
	if err != nil {
		writeError(w, r, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		WriteJSONOK(w, rows)
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="dsomm-mapping.csv"`)
		w.WriteHeader(http.StatusOK)
		if err := views.WriteMappingCSV(w, rows); err != nil {
			writeError(w, r, err)
		}
	default:
		BadRequest(w, "Unsupported format")
	}
}
