package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across the console and HTTP layers.
type ErrorCode string

const (
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeInvalid        ErrorCode = "INVALID"
	ErrCodeConflict       ErrorCode = "CONFLICT"
	ErrCodeForbidden      ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal       ErrorCode = "INTERNAL"
	ErrCodeUnavailable    ErrorCode = "UNAVAILABLE"
	ErrCodeCorrupt        ErrorCode = "CORRUPT"
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrUserNotFound   = NewError(ErrCodeNotFound, "user not found")
	ErrTaskNotFound   = NewError(ErrCodeNotFound, "task not found")
	ErrUnauthorized   = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")
	ErrNotImplemented = NewError(ErrCodeNotImplemented, "operation not implemented")

	// Validation errors shown to the acting user.
	ErrUnknownUserCode    = NewError(ErrCodeInvalid, "please enter an existing user code")
	ErrUnknownTaskCode    = NewError(ErrCodeInvalid, "please enter an existing task code")
	ErrInvalidTransition  = NewError(ErrCodeInvalid, "status must advance exactly one step from the previous status")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "please enter a registered email address and password")
	ErrTaskNameTooLong    = NewError(ErrCodeInvalid, fmt.Sprintf("task name must be %d characters or fewer", MaxTaskNameLength))
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// IsStorageFailure reports whether err means the backing store could not be read or written,
// as opposed to a record simply being absent.
func IsStorageFailure(err error) bool {
	return IsDomainError(err, ErrCodeUnavailable) || IsDomainError(err, ErrCodeCorrupt)
}
