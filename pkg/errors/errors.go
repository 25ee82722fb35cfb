// Package errors defines the coded errors returned by the wordbank engine,
// its stores and its servers.
//
// A [Code] is the stable part of an error: the HTTP server puts it in the
// JSON error body and maps its [Kind] to a status, the CLI prints the
// message without it. Callers branch on codes, never on message text.
//
//	if errors.Is(err, errors.ErrCodeNotReady) {
//	    // measure first
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidIndex  Code = "INVALID_INDEX"
	ErrCodeInvalidOrder  Code = "INVALID_ORDER"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	ErrCodeNotReady Code = "NOT_READY"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired  Code = "SESSION_EXPIRED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Kind groups codes by who has to act on them.
type Kind int

const (
	KindInternal    Kind = iota // engine or storage failure
	KindInput                   // the caller sent something malformed
	KindState                   // a valid call made before the board is ready
	KindMissing                 // the referenced resource is gone or never existed
	KindUnsupported             // the operation is not available in this build
)

// Kind classifies c. Unknown codes are internal.
func (c Code) Kind() Kind {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidIndex, ErrCodeInvalidOrder, ErrCodeInvalidConfig:
		return KindInput
	case ErrCodeNotReady:
		return KindState
	case ErrCodeNotFound, ErrCodeSessionNotFound, ErrCodeSessionExpired:
		return KindMissing
	case ErrCodeUnsupported:
		return KindUnsupported
	}
	return KindInternal
}

// Error carries a code, a message for the user and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// CodeOf returns the code of the outermost *Error in err's chain. Errors
// without one are internal; a nil error has no code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// UserMessage returns the message of the outermost *Error without its code,
// or err's text for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
