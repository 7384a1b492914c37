package telemetry

import "codeberg.org/mutker/homectl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidInterval = errors.ErrInvalidInterval
	ErrInvalidCadence  = errors.ErrorCode("telemetry_invalid_cadence")
	ErrMissingWiring   = errors.ErrorCode("telemetry_missing_wiring")

	// Lifecycle Errors
	ErrAlreadyStreaming = errors.ErrorCode("telemetry_already_streaming")
)
