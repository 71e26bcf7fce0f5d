// Package handlers provides HTTP handlers for the dsomm API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/dsomm/internal/logger"
	"github.com/marmos91/dsomm/pkg/loader"
	"github.com/marmos91/dsomm/pkg/model"
	"github.com/marmos91/dsomm/pkg/state"
	"github.com/marmos91/dsomm/pkg/tracker"
)

// Problem represents an RFC 7807 "problem details" response.
// https://tools.ietf.org/html/rfc7807
type Problem struct {
	// Type is a URI reference that identifies the problem type.
	// If not set, defaults to "about:blank".
	Type string `json:"type,omitempty"`

	// Title is a short, human-readable summary of the problem type.
	Title string `json:"title"`

	// Status is the HTTP status code for this occurrence of the problem.
	Status int `json:"status"`

	// Detail is a human-readable explanation specific to this occurrence.
	Detail string `json:"detail,omitempty"`

	// Instance is a URI reference that identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`
}

// ContentTypeProblemJSON is the Content-Type for RFC 7807 problem responses.
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes an RFC 7807 problem response.
func WriteProblem(w http.ResponseWriter, status int, title, detail string) {
	problem := &Problem{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	}

	w.Header().Set("Content-Type", ContentTypeProblemJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem)
}

// BadRequest writes a 400 Bad Request problem response.
func BadRequest(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusBadRequest, "Bad Request", detail)
}

// Unauthorized writes a 401 Unauthorized problem response.
func Unauthorized(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusUnauthorized, "Unauthorized", detail)
}

// Forbidden writes a 403 Forbidden problem response.
func Forbidden(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusForbidden, "Forbidden", detail)
}

// NotFound writes a 404 Not Found problem response.
func NotFound(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusNotFound, "Not Found", detail)
}

// Conflict writes a 409 Conflict problem response.
func Conflict(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusConflict, "Conflict", detail)
}

// UnprocessableEntity writes a 422 Unprocessable Entity problem response.
func UnprocessableEntity(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusUnprocessableEntity, "Unprocessable Entity", detail)
}

// ServiceUnavailable writes a 503 Service Unavailable problem response.
func ServiceUnavailable(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusServiceUnavailable, "Service Unavailable", detail)
}

// InternalServerError writes a 500 Internal Server Error problem response.
func InternalServerError(w http.ResponseWriter, detail string) {
	WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", detail)
}

// writeError maps service errors to problem responses. Unexpected errors
// are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrActivityNotFound),
		errors.Is(err, model.ErrTeamNotFound),
		errors.Is(err, model.ErrGroupNotFound),
		errors.Is(err, state.ErrSettingNotFound):
		NotFound(w, err.Error())

	case errors.Is(err, model.ErrDuplicateName):
		Conflict(w, err.Error())

	case errors.Is(err, model.ErrUnknownProgressTitle),
		errors.Is(err, model.ErrEmptyName),
		errors.Is(err, tracker.ErrInvalidSettingValue):
		UnprocessableEntity(w, err.Error())

	case errors.Is(err, tracker.ErrRenameNotAllowed):
		Forbidden(w, err.Error())

	case errors.Is(err, tracker.ErrNotLoaded),
		errors.Is(err, model.ErrProgressNotReady),
		loader.IsDataValidation(err):
		ServiceUnavailable(w, err.Error())

	default:
		logger.ErrorCtx(r.Context(), "Request failed",
			logger.RequestID(middleware.GetReqID(r.Context())),
			logger.KeyPath, r.URL.Path,
			logger.Err(err))
		InternalServerError(w, "internal error")
	}
}
