package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserNotFound       = errors.New("user not found")
	ErrSettingsNotFound   = errors.New("settings not found")
)

// ValidationError carries the message shown to the client. It matches
// ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// SettingsNotFoundError is returned when the user has never saved settings.
// It matches ErrSettingsNotFound.
type SettingsNotFoundError struct {
	Username string
}

func (e *SettingsNotFoundError) Error() string {
	return fmt.Sprintf("no settings saved for %s", e.Username)
}

func (e *SettingsNotFoundError) Is(target error) bool { return target == ErrSettingsNotFound }
