// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Storage errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEntry    = errors.New("duplicate entry")
	ErrDatabaseCorrupted = errors.New("database corrupted")
)

// ErrInvalidInput is wrapped by every validation error so transports can map
// it to a client error without knowing the package that produced it.
var ErrInvalidInput = errors.New("invalid input")

// ErrSourceUnavailable is returned by an alert source that could not be read.
var ErrSourceUnavailable = errors.New("alert source unavailable")

// Configuration errors.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the person at the terminal
// alongside the underlying cause.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
}

func (e *UserError) Unwrap() error { return e.Err }

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{UserMessage: userMessage, Err: err}
}

// Describe returns the user-facing message of the first UserError in err's
// chain, or err.Error() when there is none.
func Describe(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.UserMessage
	}
	return err.Error()
}

// IsRetryable determines if an error should trigger a retry.
// An explicit RetryableError wins over the wrapped sentinel.
func IsRetryable(err error) bool {
	var re *RetryableError
	if errors.As(err, &re) {
		return re.Retryable
	}

	switch {
	case errors.Is(err, ErrSourceUnavailable), errors.Is(err, ErrDatabaseLocked):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
