package model

import (
	"errors"
)

// ErrorKind classifies a domain error so the transport layer can map it
// to a status code without inspecting messages.
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindConflict        ErrorKind = "conflict"
	KindNotFound        ErrorKind = "not_found"
	KindInvalidToken    ErrorKind = "invalid_token"
	KindConfiguration   ErrorKind = "configuration"
	KindOperationFailed ErrorKind = "operation_failed"
)

// Error is a domain error carrying a kind and a caller-facing message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// ErrNotFound is the generic absent-entity error returned by repositories.
var ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}

func NewInvalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: msg}
}

func NewConflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func NewNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewInvalidToken(msg string) *Error {
	return &Error{Kind: KindInvalidToken, Message: msg}
}

func NewConfiguration(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

func NewOperationFailed(msg string) *Error {
	return &Error{Kind: KindOperationFailed, Message: msg}
}

// IsKind reports whether err is (or wraps) a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
