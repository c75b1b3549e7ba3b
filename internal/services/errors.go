package services

import (
	"errors"

	"github.com/He-ro616/we4x-CO/internal/auth"
)

// Workflow errors. Handlers map them to a notice and a redirect.
var (
	ErrInvalidCredentials  = auth.ErrInvalidCredentials
	ErrUnauthorized        = errors.New("you are not allowed to do that")
	ErrNotFound            = errors.New("not found")
	ErrValidationFailed    = errors.New("validation failed")
	ErrConstraintViolation = errors.New("store constraint violated")

	ErrOAuthStateMismatch = errors.New("oauth state mismatch")
	ErrOAuthTokenExpired  = errors.New("oauth authorization expired")
	ErrOAuthProviderError = errors.New("oauth provider error")
	ErrMissingEmail       = errors.New("oauth account has no verified email")

	ErrEventFull         = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("email already registered for this event")
)

// ValidationError describes which input was rejected. It matches ErrValidationFailed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
