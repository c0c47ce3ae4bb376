package domain

import "errors"

// Sentinel errors shared by services and mapped to HTTP statuses by the handlers.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountInactive    = errors.New("account is deactivated")
	ErrEmailExists        = errors.New("email already registered")
	ErrCompanyExists      = errors.New("company already registered")
	ErrInvalidHost        = errors.New("invalid host")
	ErrAlreadyCheckedIn   = errors.New("visitor already checked in")
	ErrAlreadyCheckedOut  = errors.New("visit already checked out")
	ErrNotCheckable       = errors.New("pre-registration cannot be checked in")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
