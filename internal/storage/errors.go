package storage

import "codeberg.org/mutker/homectl/internal/errors"

const (
	// Configuration Errors
	ErrInvalidDBPath = errors.ErrorCode("storage_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed       = errors.ErrorCode("storage_schema_init_failed")
	ErrSchemaValidationFailed = errors.ErrorCode("storage_schema_validation_failed")

	// Storage Errors
	ErrStorageInit   = errors.ErrStorageInit
	ErrStorageAccess = errors.ErrStorageAccess
	ErrStorageClose  = errors.ErrStorageClose

	// Retention Errors
	ErrRetentionSchedule = errors.ErrorCode("storage_retention_schedule_failed")
	ErrRetentionPrune    = errors.ErrorCode("storage_retention_prune_failed")
)
