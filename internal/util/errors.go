package util

import "errors"

// Sentinel error kinds. Services wrap these with fmt.Errorf("...: %w", ...)
// so controllers can map them to HTTP statuses with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("permission denied")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
)
