package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Error type tags carried in CustomError.Type and rendered in the response envelope
const (
	TypeValidation   = "validation"
	TypeNotFound     = "not_found"
	TypeConflict     = "conflict"
	TypeUnauthorized = "unauthorized"
	TypeForbidden    = "forbidden"
	TypeFormClosed   = "form.closed"
	TypeInternal     = "internal"
)

// CustomError is a client-actionable error. Code is the HTTP status.
type CustomError struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Type    string              `json:"type"`
	Fields  map[string][]string `json:"errors,omitempty"`
	Err     error               `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s [type: %s]: %v", e.Code, e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a 422 with per-field messages.
func NewValidationError(message string, fields map[string][]string) *CustomError {
	return &CustomError{Code: http.StatusUnprocessableEntity, Message: message, Type: TypeValidation, Fields: fields}
}

// NewFieldError is a 422 for a single field.
func NewFieldError(field, message string) *CustomError {
	return NewValidationError(message, map[string][]string{field: {message}})
}

func NewNotFoundError(message string) *CustomError {
	return &CustomError{Code: http.StatusNotFound, Message: message, Type: TypeNotFound}
}

func NewConflictError(message string, cause error) *CustomError {
	return &CustomError{Code: http.StatusConflict, Message: message, Type: TypeConflict, Err: cause}
}

func NewUnauthorizedError(message string) *CustomError {
	return &CustomError{Code: http.StatusUnauthorized, Message: message, Type: TypeUnauthorized}
}

func NewForbiddenError(message string) *CustomError {
	return &CustomError{Code: http.StatusForbidden, Message: message, Type: TypeForbidden}
}

// AsCustomError unwraps err looking for a CustomError.
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsType reports whether err carries a CustomError with the given type tag.
func IsType(err error, errorType string) bool {
	ce, ok := AsCustomError(err)
	return ok && ce.Type == errorType
}
