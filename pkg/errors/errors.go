package errors

import "errors"

// Error kinds. Service errors wrap exactly one of these so the HTTP layer can
// pick a status code without knowing every module's sentinels.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// ErrOptimisticLock the row was modified by another request since it was read.
var ErrOptimisticLock = errors.New("record was modified by another request, reload and retry")
