// Package errors provides the coded failures a catalog run can end with.
//
// Callers match with errors.Is against the sentinels:
//
//	if errors.Is(err, errors.ErrSourceUnavailable) {
//	    // input catalog could not be opened
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes for every fatal condition of a run.
const (
	CodeSourceUnavailable Code = "SOURCE_UNAVAILABLE"
	CodeSchemaMismatch    Code = "SCHEMA_MISMATCH"
	CodeConfiguration     Code = "CONFIGURATION"
	CodeDuplicateID       Code = "DUPLICATE_ID"
)

// Error is a domain error with a code, message, and optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrSourceUnavailable = &Error{Code: CodeSourceUnavailable, Message: "source unavailable"}
	ErrSchemaMismatch    = &Error{Code: CodeSchemaMismatch, Message: "schema mismatch"}
	ErrConfiguration     = &Error{Code: CodeConfiguration, Message: "configuration error"}
	ErrDuplicateID       = &Error{Code: CodeDuplicateID, Message: "duplicate id"}
)

// SourceUnavailable reports an input that cannot be opened or read.
func SourceUnavailable(path string, cause error) *Error {
	return &Error{Code: CodeSourceUnavailable, Message: fmt.Sprintf("cannot read %s", path), cause: cause}
}

// SchemaMismatch reports an input whose columns do not match the catalog schema.
func SchemaMismatch(format string, args ...any) *Error {
	return &Error{Code: CodeSchemaMismatch, Message: fmt.Sprintf(format, args...)}
}

// Configuration reports an invalid distribution table or index range.
func Configuration(format string, args ...any) *Error {
	return &Error{Code: CodeConfiguration, Message: fmt.Sprintf(format, args...)}
}

// DuplicateID reports an id that appears more than once in a merged catalog.
func DuplicateID(id string) *Error {
	return &Error{Code: CodeDuplicateID, Message: fmt.Sprintf("track id %s appears more than once", id)}
}

// Wrap attaches a cause to a coded error, keeping its code.
func Wrap(e *Error, cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, cause: cause}
}
