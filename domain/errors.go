package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
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
	ErrUserNotFound      = NewError(ErrCodeNotFound, "user not found")
	ErrApartmentNotFound = NewError(ErrCodeNotFound, "apartment not found")
	ErrTaskNotFound      = NewError(ErrCodeNotFound, "task not found")
	ErrExpenseNotFound   = NewError(ErrCodeNotFound, "expense not found")
	ErrRatingNotFound    = NewError(ErrCodeNotFound, "rating not found")
	ErrSessionNotFound   = NewError(ErrCodeNotFound, "session not found")

	ErrAlreadyMember   = NewError(ErrCodeConflict, "user is already a member of this apartment")
	ErrApartmentFull   = NewError(ErrCodeConflict, "apartment has no free slots")
	ErrAlreadyRated    = NewError(ErrCodeConflict, "rating for this user already exists")
	ErrSelfRating      = NewError(ErrCodeConflict, "cannot rate yourself")
	ErrEmailTaken      = NewError(ErrCodeConflict, "email is already registered")
	ErrCodeTaken       = NewError(ErrCodeConflict, "join code is already in use")
	ErrVersionConflict = NewError(ErrCodeConflict, "apartment was modified concurrently")

	ErrNotMember      = NewError(ErrCodeForbidden, "caller is not a member of this apartment")
	ErrUnauthorized   = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload = NewError(ErrCodeInvalid, "invalid payload")
	ErrBadCredentials = NewError(ErrCodeUnauthorized, "invalid email or password")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// IsRetryable reports whether the error is a transient concurrency conflict
// that the caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
