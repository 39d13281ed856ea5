package errs

import "errors"

// Domain-specific sentinel errors for the session lifecycle usecases
var (
	// Table errors
	ErrTableNotFound     = errors.New("table not found")
	ErrTableNotAvailable = errors.New("table not available")

	// Tariff errors
	ErrTariffNotFound    = errors.New("tariff not found")
	ErrTariffRestriction = errors.New("tariff restriction violated")

	// Session errors
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionConflict     = errors.New("session conflict")
	ErrSessionNotActive    = errors.New("session not active")
	ErrSessionNotPaused    = errors.New("session not paused")
	ErrSessionAlreadyEnded = errors.New("session already ended")
	ErrServiceNotFound     = errors.New("service not found in session")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
