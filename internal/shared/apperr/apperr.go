package apperr

import (
	"errors"
	"fmt"
)

// AppError represents an application error with additional context
type AppError struct {
	Code    string // Error code for client
	Message string // Human-readable message
	Err     error  // Underlying error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateKey       = "DUPLICATE_KEY"
	CodeInvalidReference   = "INVALID_REFERENCE"
	CodeInvalidAccount     = "INVALID_ACCOUNT"
	CodeUnbalanced         = "UNBALANCED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with a code and message
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation creates a validation error
func Validation(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// DuplicateKey creates a duplicate key error
func DuplicateKey(message string) *AppError {
	return &AppError{
		Code:    CodeDuplicateKey,
		Message: message,
	}
}

// InvalidReference creates an error for a dangling account or parent code
func InvalidReference(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidReference,
		Message: message,
	}
}

// InvalidAccount creates an error for posting to a non-leaf or disabled account
func InvalidAccount(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidAccount,
		Message: message,
	}
}

// Unbalanced creates an error for a voucher whose debits and credits differ
func Unbalanced(message string) *AppError {
	return &AppError{
		Code:    CodeUnbalanced,
		Message: message,
	}
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// Conflict creates a conflict error (uniqueness race, referential delete conflict)
func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// StorageUnavailable wraps a backing store failure; callers may retry
func StorageUnavailable(message string, err error) *AppError {
	return &AppError{
		Code:    CodeStorageUnavailable,
		Message: message,
		Err:     err,
	}
}

// Internal creates an internal error
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// Get extracts an AppError from an error chain
func Get(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
