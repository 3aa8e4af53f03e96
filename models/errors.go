package models

import "fmt"

// ValidationError marks missing or malformed client input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a referenced record that does not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// ConflictError marks an attempt to create a record that already exists.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// UpstreamError wraps a failure in the blob store or the database.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
