// Package errors provides the structured error kinds used across the
// directory. Callers check kinds with the Is* helpers (errors.As underneath)
// instead of matching message strings.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError indicates bad input from a caller: a malformed form field,
// an out-of-range id, an import row that cannot be accepted.
type ValidationError struct {
	Op  string // where it happened (package.Function)
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("validation: %s: %s", e.Op, e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidation(op, msg string, err error) error {
	return &ValidationError{Op: op, Msg: msg, Err: err}
}

// DBError represents database access failures.
type DBError struct {
	Op  string
	Msg string
	Err error
}

func (e *DBError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("db: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("db: %s: %s", e.Op, e.Msg)
}

func (e *DBError) Unwrap() error { return e.Err }

func NewDB(op, msg string, err error) error { return &DBError{Op: op, Msg: msg, Err: err} }

// ExternalAPIError represents failures in external systems (Google Maps,
// OpenAI). System carries the service name for logs.
type ExternalAPIError struct {
	Op     string
	System string
	Msg    string
	Err    error
}

func (e *ExternalAPIError) Error() string {
	sys := e.System
	if sys == "" {
		sys = "external"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", sys, e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", sys, e.Op, e.Msg)
}

func (e *ExternalAPIError) Unwrap() error { return e.Err }

func NewExternal(op, system, msg string, err error) error {
	return &ExternalAPIError{Op: op, System: system, Msg: msg, Err: err}
}

// NotFoundError marks lookups of places/specialties that do not exist, so
// handlers can answer 404 instead of 500.
type NotFoundError struct {
	Op  string
	Msg string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("not found: %s: %s", e.Op, e.Msg) }

func NewNotFound(op, msg string) error { return &NotFoundError{Op: op, Msg: msg} }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsDB(err error) bool {
	var d *DBError
	return errors.As(err, &d)
}

func IsExternal(err error) bool {
	var x *ExternalAPIError
	return errors.As(err, &x)
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}
