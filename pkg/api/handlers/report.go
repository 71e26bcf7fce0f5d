package handlers

import (
	"net/http"

	"github.com/marmos91/dsomm/pkg/tracker"
	"github.com/marmos91/dsomm/pkg/views"
)

// ReportHandler serves the progress report and its stored configuration.
type ReportHandler struct {
	svc *tracker.Service
}

func NewReportHandler(svc *tracker.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Get handles GET /api/v1/report. Query parameters override single fields
// of the stored configuration for this request only.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.ReportConfig(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	if q.Has("max_level") {
		n, ok := queryInt(w, r, "max_level")
		if !ok {
			return
		}
		cfg.MaxLevel = n
	}
	if v := queryList(r, "dimension"); len(v) > 0 {
		cfg.Dimensions = v
	}
	if v := queryList(r, "tag"); len(v) > 0 {
		cfg.Tags = v
	}
	if v := queryList(r, "team"); len(v) > 0 {
		cfg.Teams = v
	}
	if v := queryList(r, "column"); len(v) > 0 {
		cfg.Columns = v
	}

	report, err := h.svc.Report(r.Context(), &cfg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, report)
}

// GetConfig handles GET /api/v1/report/config.
func (h *ReportHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.ReportConfig(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, cfg)
}

// SetConfig handles PUT /api/v1/report/config.
func (h *ReportHandler) SetConfig(w http.ResponseWriter, r *http.Request) {
	var cfg views.ReportConfig
	if !decodeJSONBody(w, r, &cfg) {
		return
	}
	if err := h.svc.SetReportConfig(r.Context(), cfg); err != nil {
		writeError(w, r, err)
		return
	}
	h.GetConfig(w, r)
}
