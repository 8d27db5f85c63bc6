package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/planner-be/internal/models"
	"github.com/rs/zerolog/log"
)

// API error codes returned in JSON { "error": "...", "code": "..." }.
const (
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeValidation         = "validation_error"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeDuplicateHandle    = "duplicate_handle"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeNotFound           = "not_found"
	ErrCodeInternal           = "internal_error"
)

// maxBodyBytes caps request bodies; documents are the largest payloads.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields []models.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr sends JSON { "error": message, "code": errCode }.
func writeErr(w http.ResponseWriter, code int, errCode string, message string) {
	writeJSON(w, code, errorResponse{Error: message, Code: errCode})
}

// writeServiceError maps a service error onto a status code. Unexpected
// errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Code: ErrCodeValidation, Fields: verr.Errors})
	case errors.Is(err, models.ErrValidation):
		writeErr(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeErr(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, models.ErrInvalidCredentials):
		writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid credentials")
	case errors.Is(err, models.ErrDuplicateHandle):
		writeErr(w, http.StatusInternalServerError, ErrCodeDuplicateHandle, "handle already registered")
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg(msg)
		writeErr(w, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// decodeJSON reads a JSON body into v, rejecting bodies that are not a
// single well-formed object.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return false
	}
	return true
}
