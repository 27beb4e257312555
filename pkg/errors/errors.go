// Package errors defines the application error type the whole API
// speaks. Services wrap repository failures into it, handlers hand it
// to the response layer, and the response layer reads the HTTP status
// off it. The Code field is the stable, machine-readable part of the
// contract; Message is free to change.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed error carrying a stable code and the HTTP status it
// should surface as. Err holds the underlying cause and never reaches
// the client.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New builds an Error with no underlying cause.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap builds an Error around an underlying cause.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Sentinel errors. Services either return these directly, Clone them
// with a more specific message, or Wrap a cause under the same code.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusBadRequest, "invalid email or password")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrRoleAlreadySet     = New("ROLE_ALREADY_SET", http.StatusBadRequest, "role is already set")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError coerces any error into an *Error. Unknown errors become
// internal errors so no raw failure detail leaks to clients.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone copies a sentinel, optionally overriding its message. Use it
// instead of mutating the shared sentinels.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
