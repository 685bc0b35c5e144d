package services

import "errors"

// Sentinel error kinds returned by the services. Handlers translate these
// into HTTP statuses; anything else is treated as an internal error.
var (
	// ErrNotFound covers both a missing record and a record owned by a
	// different user. Callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a uniqueness violation (duplicate username, email
	// or working-hours date).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput signals an out-of-range or malformed value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized signals bad credentials or a missing/expired token.
	ErrUnauthorized = errors.New("unauthorized")
)

// kindError carries a user-facing message while staying matchable against
// one of the sentinel kinds via errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func notFoundErr(msg string) error     { return &kindError{kind: ErrNotFound, msg: msg} }
func conflictErr(msg string) error     { return &kindError{kind: ErrConflict, msg: msg} }
func invalidErr(msg string) error      { return &kindError{kind: ErrInvalidInput, msg: msg} }
func unauthorizedErr(msg string) error { return &kindError{kind: ErrUnauthorized, msg: msg} }
