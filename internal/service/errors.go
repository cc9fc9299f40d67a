package service

import (
	"errors"
	"fmt"
)

// Sentinel errors the handlers map onto HTTP statuses.
var (
	ErrTicketNotAvailable = errors.New("ticket is not available")
	ErrNoClientsForSplit  = errors.New("no clients found for the given purchase reference")
)

// ValidationError is a precondition violation reported back to the caller.
// No partial state change happens when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validationf builds a ValidationError.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
