package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind names one entry of the fixed error vocabulary. Clients branch on it.
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindUnauthorized Kind = "Unauthorized"
	KindForbidden    Kind = "Forbidden"
	KindBadPassword  Kind = "BadPassword"
	KindNotFound     Kind = "NotFound"
	KindConflict     Kind = "Conflict"
	KindLocking      Kind = "LockingError"
	KindDatabase     Kind = "DatabaseError"
	KindIllegalState Kind = "IllegalState"
	KindService      Kind = "ServiceError"
)

var kindStatus = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindBadPassword:  http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindLocking:      http.StatusConflict,
	KindDatabase:     http.StatusInternalServerError,
	KindIllegalState: http.StatusInternalServerError,
	KindService:      http.StatusInternalServerError,
}

// Status returns the suggested HTTP status for the kind.
func (k Kind) Status() int {
	if s, ok := kindStatus[k]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is the only error type returned by domain mutators and the store.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Status() int {
	return e.Kind.Status()
}

// Is matches on kind only, so errors.Is(err, ErrConflict) holds for any Conflict.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrBadPassword  = &Error{Kind: KindBadPassword}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrLocking      = &Error{Kind: KindLocking}
	ErrDatabase     = &Error{Kind: KindDatabase}
	ErrIllegalState = &Error{Kind: KindIllegalState}
	ErrService      = &Error{Kind: KindService}
)

func newError(kind Kind, format string, args ...interface{}) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Kind: kind, Message: msg}
}

func Invalid(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newError(KindForbidden, format, args...)
}

func BadPassword(format string, args ...interface{}) *Error {
	return newError(KindBadPassword, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

func LockingError(format string, args ...interface{}) *Error {
	return newError(KindLocking, format, args...)
}

func DatabaseError(format string, args ...interface{}) *Error {
	return newError(KindDatabase, format, args...)
}

func IllegalState(format string, args ...interface{}) *Error {
	return newError(KindIllegalState, format, args...)
}

func ServiceError(format string, args ...interface{}) *Error {
	return newError(KindService, format, args...)
}

// KindOf reports the kind of err. Errors outside the taxonomy are ServiceError.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindService
}

func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
