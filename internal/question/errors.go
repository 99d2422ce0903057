package question

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service and storage adapters.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnprocessable = errors.New("unprocessable")
)

// ValidationError describes a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrUnprocessable }

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
