package httpx

import "fmt"

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NotFoundf builds a NotFound error whose message is the detail shown to the
// caller.
func NotFoundf(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// Conflictf builds a Conflict error (business-rule violation).
func Conflictf(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

// Validationf builds a Validation error.
func Validationf(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// Forbiddenf builds a Forbidden error.
func Forbiddenf(format string, args ...any) error {
	return &kindError{kind: ErrForbidden, msg: fmt.Sprintf(format, args...)}
}
