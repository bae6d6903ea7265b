package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-roleform/pkg/session"
)

const maxBodyBytes = 1 << 20

// Error codes carried in JSON error bodies and WebSocket error messages.
const (
	codeNotFound         = "NOT_FOUND"
	codeInvalidBody      = "INVALID_BODY"
	codeUnknownField     = "UNKNOWN_FIELD"
	codeInvalidEvent     = "INVALID_EVENT"
	codeFieldHidden      = "FIELD_HIDDEN"
	codeSubmitDisabled   = "SUBMIT_DISABLED"
	codeNothingSubmitted = "NOTHING_SUBMITTED"
	codeUnknownType      = "UNKNOWN_TYPE"
	codeInternal         = "INTERNAL"
)

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// classify maps session errors onto an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, session.ErrUnknownField):
		return http.StatusBadRequest, codeUnknownField
	case errors.Is(err, session.ErrInvalidEvent):
		return http.StatusBadRequest, codeInvalidEvent
	case errors.Is(err, session.ErrFieldHidden):
		return http.StatusBadRequest, codeFieldHidden
	case errors.Is(err, session.ErrSubmitDisabled):
		return http.StatusConflict, codeSubmitDisabled
	case errors.Is(err, session.ErrNothingSubmitted):
		return http.StatusConflict, codeNothingSubmitted
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func writeSessionError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err.Error())
}
