package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an email is already registered
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateRegistration is returned when the same email registers twice for one event
	ErrDuplicateRegistration = errors.New("email already registered for event")
)
