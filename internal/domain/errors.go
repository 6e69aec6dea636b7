package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Is implementations so errors.Is() matches the matching sentinel
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	// Claim ledger outcomes. These are expected, user-facing results of a
	// claim attempt, not system faults; callers must be able to tell them
	// apart to drive distinct UI feedback.
	ErrOutOfStock   = errors.New("out of stock")
	ErrLimitReached = errors.New("claim limit reached")
)

// ConflictError represents a resource conflict with details about the existing record
// Implements HTTPError interface for extensible error handling
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of record (project, folder, resource)
	ResourceID   string // ID of the existing/conflicting record
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// OutOfStockError indicates a claim attempt against a resource whose
// available quantity is exhausted. Terminal for this attempt; no retry
// helps until new stock is added.
type OutOfStockError struct {
	ResourceID string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("resource %s is out of stock", e.ResourceID)
}

func (e *OutOfStockError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrOutOfStock
func (e *OutOfStockError) Is(target error) bool {
	return target == ErrOutOfStock
}

// ClaimLimitError indicates the borrower has already reached the
// per-user claim limit for a resource. A policy violation, not a fault.
type ClaimLimitError struct {
	ResourceID   string
	BorrowerName string
	Limit        int
}

func (e *ClaimLimitError) Error() string {
	return fmt.Sprintf("borrower %q has reached the claim limit (%d) for resource %s",
		e.BorrowerName, e.Limit, e.ResourceID)
}

func (e *ClaimLimitError) StatusCode() int {
	return http.StatusTooManyRequests
}

// Is allows errors.Is() to match against ErrLimitReached
func (e *ClaimLimitError) Is(target error) bool {
	return target == ErrLimitReached
}
