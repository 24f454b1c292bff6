package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Domain packages wrap these with a
// human-readable detail; RespondError maps the wrapped kind to a status code.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// RespondError maps domain errors to HTTP responses. Deliberate errors carry
// their message as the detail; anything unrecognised is reported as a generic
// internal error so lower-layer diagnostics never leak to callers.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict), errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
