package models

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by stores and in-memory views.
var (
	ErrSensorNotFound      = errors.New("sensor not found")
	ErrAlertNotFound       = errors.New("alert not found")
	ErrAlreadyAcknowledged = errors.New("alert already acknowledged")
)

// ValidationError marks a malformed record. The record is skipped; it is
// never fatal to the surrounding tick or request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
