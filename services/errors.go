package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds returned by the service layer. Handlers map these to HTTP
// status codes with errors.Is, so every service function must return one of
// them (possibly wrapped) rather than a raw store error.
var (
	// ErrNotFound - the target record does not exist
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized - authenticated but not permitted
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnauthenticated - missing or invalid credentials
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrConflict - duplicate username or manufacturer name
	ErrConflict = errors.New("conflict")
	// ErrValidation - missing or malformed required field
	ErrValidation = errors.New("validation failed")
	// ErrUnavailable - the store is unreachable
	ErrUnavailable = errors.New("service unavailable")
)

// storeErr converts a gorm error into a service error kind. A missing record
// becomes ErrNotFound; anything else is treated as the store being unavailable.
func storeErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
