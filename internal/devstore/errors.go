package devstore

import "codeberg.org/mutker/homectl/internal/errors"

const (
	// Storage Errors
	ErrStorageAccess = errors.ErrStorageAccess

	// Lookup Errors
	ErrNotFound = errors.ErrDeviceNotFound

	// Argument Errors
	ErrInvalidSnapshot = errors.ErrorCode("devstore_invalid_snapshot")
)
