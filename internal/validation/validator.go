// Package validation checks user input before any state changes. A
// validation failure is reported inline to the caller and aborts the
// operation; it is never a storage error.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a user-facing validation failure on a single input field.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errorf builds a validation error for one field
func Errorf(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a validation error
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// ValidateCredentials checks a signup or login submission
func ValidateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return Errorf("username", "username is required")
	}
	if password == "" {
		return Errorf("password", "password is required")
	}
	return nil
}

// ValidateFeedback checks a feedback submission
func ValidateFeedback(text string) error {
	if strings.TrimSpace(text) == "" {
		return Errorf("text", "feedback text is required")
	}
	return nil
}

// ValidateAnalysis checks the shape parameters of an analysis request.
// Offsets are clamped later, not rejected here.
func ValidateAnalysis(dataset string, rows int) error {
	if dataset == "" {
		return Errorf("dataset", "dataset is required")
	}
	if rows <= 0 {
		return Errorf("rows", "rows must be positive")
	}
	return nil
}
