// Package service contains the business logic for the packing slip service.
package service

import (
	"errors"
)

// Packing errors. Callers match them with errors.Is; each maps to a distinct API error code.
var (
	// ErrInvalidCapacity is returned when the box capacity is not a positive integer.
	ErrInvalidCapacity = errors.New("box capacity must be a positive integer")
	// ErrInvalidAllocation is returned when a lot allocation has a non-positive quantity.
	ErrInvalidAllocation = errors.New("lot allocation quantity must be positive")
	// ErrNotFound is returned when the invoice or packing slip does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when the invoice is not in a packable state.
	ErrInvalidState = errors.New("invoice is not in confirmed state")
	// ErrConflict is returned when a concurrent generation holds or won the invoice.
	ErrConflict = errors.New("invoice state changed concurrently")
	// ErrIntegrity is returned when lot allocations do not add up to the invoice lines.
	ErrIntegrity = errors.New("lot allocations are inconsistent with invoice lines")
	// ErrStorageFailure is returned when a collaborator store fails.
	ErrStorageFailure = errors.New("storage failure")
)

// Error codes exposed to API clients.
const (
	CodeInvalidCapacity   = "invalid_capacity"
	CodeInvalidAllocation = "invalid_allocation"
	CodeNotFound          = "not_found"
	CodeInvalidState      = "invalid_state"
	CodeConflict          = "conflict"
	CodeIntegrity         = "integrity_error"
	CodeStorageFailure    = "storage_failure"
	CodeInternal          = "internal_error"
)

// ErrorCode returns the API error code for err.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCapacity):
		return CodeInvalidCapacity
	case errors.Is(err, ErrInvalidAllocation):
		return CodeInvalidAllocation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrIntegrity):
		return CodeIntegrity
	case errors.Is(err, ErrStorageFailure):
		return CodeStorageFailure
	default:
		return CodeInternal
	}
}
