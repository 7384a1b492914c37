package reading

import "codeberg.org/mutker/homectl/internal/errors"

const (
	// Storage Errors
	ErrStorageAccess = errors.ErrStorageAccess

	// Argument Errors
	ErrInvalidReading = errors.ErrorCode("reading_invalid_reading")
	ErrInvalidLimit   = errors.ErrorCode("reading_invalid_limit")
	ErrInvalidRange   = errors.ErrorCode("reading_invalid_range")
)
