// Package domainerrors provides coded errors for the domain and transport
// layers. Services attach a Code when translating store or validation
// failures; handlers map codes onto HTTP statuses without inspecting
// messages.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error for transport mapping and tests.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation"
	CodeInvalidInput       Code = "invalid_input"
	CodeInvariantViolation Code = "invariant_violation"
	CodeConflict           Code = "conflict"
	CodeNotFound           Code = "not_found"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal"
)

// Error is a coded error. The wrapped cause, if any, stays reachable through
// errors.Is/errors.As so callers can still match typed domain errors.
type Error struct {
	code    Code
	message string
	err     error
}

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{code: code, message: message, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the classification of this error.
func (e *Error) Code() Code { return e.code }

// Message returns the operator-facing message without the wrapped cause.
func (e *Error) Message() string { return e.message }

// Is reports whether any error in err's chain carries the given code.
func Is(err error, code Code) bool {
	for err != nil {
		var coded *Error
		if errors.As(err, &coded) {
			if coded.code == code {
				return true
			}
			err = coded.err
			continue
		}
		return false
	}
	return false
}

// HasCode is an alias of Is kept for call-site readability.
func HasCode(err error, code Code) bool { return Is(err, code) }

// CodeOf returns the outermost code in err's chain, or CodeInternal when the
// error carries no code.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.code
	}
	return CodeInternal
}
