package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a jobdork error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrDuplicate      ErrorCode = "DUPLICATE"       // 409
	ErrEmptyList      ErrorCode = "EMPTY_LIST"      // 422
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// JobdorkError represents a structured error with code, status, and details.
type JobdorkError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *JobdorkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *JobdorkError {
	return &JobdorkError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for an entity that cannot be found.
// kind names the entity ("application", "preset", "history entry").
func NewNotFound(kind, id string) *JobdorkError {
	return &JobdorkError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, id),
		Details: map[string]any{"kind": kind, "id": id},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *JobdorkError {
	return &JobdorkError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewDuplicate creates a 409 error when a value is already present.
func NewDuplicate(value string) *JobdorkError {
	return &JobdorkError{
		Code:    ErrDuplicate,
		Status:  409,
		Message: fmt.Sprintf("already present: %q", value),
		Details: map[string]any{"value": value},
	}
}

// NewEmptyList creates a 422 error for import/export of an empty list.
func NewEmptyList(msg string) *JobdorkError {
	return &JobdorkError{
		Code:    ErrEmptyList,
		Status:  422,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *JobdorkError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &JobdorkError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// As extracts a *JobdorkError from err, following wrapped errors.
func As(err error) (*JobdorkError, bool) {
	var jErr *JobdorkError
	if stderrors.As(err, &jErr) {
		return jErr, true
	}
	return nil, false
}

// Is checks if an error is a JobdorkError with the given code.
func Is(err error, code ErrorCode) bool {
	if jErr, ok := As(err); ok {
		return jErr.Code == code
	}
	return false
}
