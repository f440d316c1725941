// Package service implements the business rules of the salon API: the
// session lifecycle, ownership scoping, and the CRUD services the HTTP
// handlers call into.
package service

import "errors"

// Error kinds.  Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUpstream        = errors.New("upstream failure")
)

// Error pairs an error kind with the message shown to the client.
type Error struct {
	Kind error
	Msg  string
	Err  error // optional cause, never shown to clients
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func fail(kind error, msg string) error { return &Error{Kind: kind, Msg: msg} }

func failWith(kind error, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}
