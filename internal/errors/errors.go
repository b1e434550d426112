// Package errors defines the typed error kinds shared across the coddog
// pipeline. Library packages return these rather than exiting, and log only
// warnings for input they skip; only command boundaries decide whether a
// kind is fatal.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error for policy decisions at the boundary.
type Kind string

const (
	KindConfig          Kind = "ConfigError"
	KindUnknownPlatform Kind = "UnknownPlatformError"
	KindParse           Kind = "ParseError"
	KindOutOfBounds     Kind = "OutOfBoundsError"
	KindBadRequest      Kind = "BadRequestError"
	KindNotFound        Kind = "NotFoundError"
	KindDatabase        Kind = "DatabaseError"
)

// Error carries a kind, a message, and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an existing error. A nil cause
// returns nil so call sites can wrap unconditionally.
func Wrap(cause error, kind Kind, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf reports the kind of err, or the empty kind if err is not ours.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}
