package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/session"
)

// Error codes returned in the "error" field.
const (
	codeInvalidJSON       = "invalid_json"
	codeInvalidInput      = "invalid_input"
	codeRoleRequired      = "role_required"
	codeNotFound          = "not_found"
	codeInvalidTransition = "invalid_transition"
	codeInternal          = "internal"
)

// maxBodyBytes bounds request bodies; a full snapshot is a few kilobytes.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errJSON marks a body that could not be decoded.
type errJSON struct{ err error }

func (e errJSON) Error() string { return "invalid JSON body: " + e.err.Error() }
func (e errJSON) Unwrap() error { return e.err }

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		// Enum values are validated while decoding.
		if errors.Is(err, footprint.ErrInvalidInput) {
			return err
		}
		return errJSON{err: err}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}

// classify maps a domain error to an HTTP status and error code.
func classify(err error) (int, string) {
	var jsonErr errJSON
	switch {
	case errors.As(err, &jsonErr):
		return http.StatusBadRequest, codeInvalidJSON
	case errors.Is(err, session.ErrUnknownSession), errors.Is(err, session.ErrUnknownDevice):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, session.ErrRoleRequired):
		return http.StatusBadRequest, codeRoleRequired
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict, codeInvalidTransition
	case errors.Is(err, footprint.ErrInvalidInput):
		return http.StatusBadRequest, codeInvalidInput
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
