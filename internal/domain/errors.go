package domain

import "errors"

var (
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("room is not available for selected dates")
	ErrState       = errors.New("illegal status transition")
	ErrNotFound    = errors.New("record not found")
	ErrReferential = errors.New("record is still referenced")
)

// ErrIO marks storage-level failures: serialization, temp-file creation or
// the atomic replace step. Always fatal to the current operation.
var ErrIO = errors.New("storage failure")
