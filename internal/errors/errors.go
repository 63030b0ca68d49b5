package errors

import (
	"errors"
	"fmt"
)

var (
	ErrLinkNotFound = errors.New("share link not found")
	ErrLinkExpired  = errors.New("share link expired")

	// ErrShortIDExists is returned by the store when an insert collides with
	// an existing short identifier. The creation service retries on it.
	ErrShortIDExists = errors.New("short id already exists")

	// ErrShortIDExhausted means every generation attempt collided. With an 8
	// character id from a 64 symbol alphabet this is practically unreachable,
	// but it must surface as an error rather than a panic.
	ErrShortIDExhausted = errors.New("short id space exhausted")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// BusinessError wraps a storage or infrastructure failure with a stable code
// the handler layer can map to a response.
type BusinessError struct {
	Code    string
	Message string
	Cause   error
}

func (e *BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Cause
}

func NewBusinessError(code, message string, cause error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

func GetValidationError(err error) *ValidationError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}

func GetBusinessError(err error) *BusinessError {
	var businessErr *BusinessError
	if errors.As(err, &businessErr) {
		return businessErr
	}
	return nil
}
