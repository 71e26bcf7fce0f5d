package handlers

import (
	"errors"
	"net/http"

	"github.com/marmos91/dsomm/pkg/state"
	"github.com/marmos91/dsomm/pkg/tracker"
)

// SettingsHandler handles stored settings.
type SettingsHandler struct {
	svc *tracker.Service
}

func NewSettingsHandler(svc *tracker.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// SettingResponse is a single setting.
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SetSettingRequest is the body of PUT /api/v1/settings/{key}.
type SetSettingRequest struct {
	Value string `json:"value"`
}

// List handles GET /api/v1/settings.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.ListSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, settings)
}

// Preferences handles GET /api/v1/preferences, the typed view of the
// display settings with defaults filled in.
func (h *SettingsHandler) Preferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.svc.Settings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, prefs)
}

// SetPreferences handles PUT /api/v1/preferences.
func (h *SettingsHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs tracker.Settings
	if !decodeJSONBody(w, r, &prefs) {
		return
	}
	if err := h.svc.SetSettings(r.Context(), prefs); err != nil {
		writeError(w, r, err)
		return
	}
	h.Preferences(w, r)
}

// Get handles GET /api/v1/settings/{key}.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := urlParam(r, "key")
	value, err := h.svc.Setting(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, SettingResponse{Key: key, Value: value})
}

// Set handles PUT /api/v1/settings/{key}.
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	key := urlParam(r, "key")
	var req SetSettingRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.svc.SetSetting(r.Context(), key, req.Value); err != nil {
		writeError(w, r, err)
		return
	}
	value, err := h.svc.Setting(r.Context(), key)
	if errors.Is(err, state.ErrSettingNotFound) {
		// an empty matrix selection is stored by deleting it
		WriteNoContent(w)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	WriteJSONOK(w, SettingResponse{Key: key, Value: value})
}

// Delete handles DELETE /api/v1/settings/{key}.
func (h *SettingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSetting(r.Context(), urlParam(r, "key")); err != nil {
		writeError(w, r, err)
		return
	}
	WriteNoContent(w)
}
