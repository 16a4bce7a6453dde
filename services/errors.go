package services

import "errors"

// Shared errors used across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrMeetNameRequired      = errors.New("meet name is required")
	ErrMeetFolderRequired    = errors.New("meet source folder is required")
	ErrMeetInvalidFormat     = errors.New("unknown start list source format")
	ErrMeetNotEditable       = errors.New("meet is locked for editing")
	ErrInvalidCheckInStatus  = errors.New("invalid check-in status")
	ErrInvalidFinishRank     = errors.New("finish rank must be positive")
	ErrUserLoginRequired     = errors.New("user login is required")
	ErrUserInvalidRole       = errors.New("unknown user role")
	ErrImportAlreadyRunning  = errors.New("an import for this meet is already in progress")

	// Conflicts
	ErrMeetNameConflict  = errors.New("meet name is already in use")
	ErrUserLoginConflict = errors.New("login is already in use")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid login or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific lookups
	ErrMeetNotFound       = errors.New("meet not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEventInfoNotFound  = errors.New("event not found")
	ErrEventEntryNotFound = errors.New("event entry not found")
)
