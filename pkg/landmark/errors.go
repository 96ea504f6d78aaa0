package landmark

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrModelNotFound is returned when a model file is missing on disk.
	ErrModelNotFound = errors.New("landmark: model file not found")

	// ErrEmptyFrame is returned when a frame decodes to an empty image.
	ErrEmptyFrame = errors.New("landmark: empty frame")

	// ErrDetectorClosed is returned when estimating on a closed detector.
	ErrDetectorClosed = errors.New("landmark: detector closed")

	// ErrAllBackendsFailed is returned when every backend in a chain
	// fails to initialize.
	ErrAllBackendsFailed = errors.New("landmark: all backends failed")
)

// BackendError wraps an error with backend context.
type BackendError struct {
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("landmark [%s]: %v", e.Backend, e.Err)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// ChainError aggregates initialization errors from all backends in a chain.
type ChainError struct {
	Errors []error
}

// Error implements the error interface.
func (e *ChainError) Error() string {
	if len(e.Errors) == 0 {
		return "landmark chain: no errors recorded"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("landmark chain: %v", e.Errors[0])
	}
	return fmt.Sprintf("landmark chain: all %d backends failed, last error: %v",
		len(e.Errors), e.Errors[len(e.Errors)-1])
}

// Unwrap returns the last error in the chain.
func (e *ChainError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[len(e.Errors)-1]
}

// Is matches ErrAllBackendsFailed so callers can test the aggregate
// condition without a type assertion.
func (e *ChainError) Is(target error) bool {
	return target == ErrAllBackendsFailed
}
