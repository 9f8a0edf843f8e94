package apperrors

import (
	"errors"
	"net/http"
)

// AppError is the domain error returned by services and repositories.
// Handlers translate it into an HTTP response through HTTPStatus.
type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

func (appErr *AppError) Unwrap() error {
	return appErr.Origin
}

// Standard error codes for the application
const (
	// Resource errors
	ErrNotFound   = "NOT_FOUND"
	ErrConflict   = "CONFLICT"
	ErrValidation = "VALIDATION"
	ErrBadRequest = "BAD_REQUEST"

	// Authentication/Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrInvalidToken = "INVALID_TOKEN"
	ErrInactiveUser = "INACTIVE_USER"
	ErrForbidden    = "FORBIDDEN" // User is authenticated but doesn't have permission

	// Reaction errors
	ErrSelfReaction = "SELF_REACTION"
	ErrNothingToDo  = "NOTHING_TO_DO"

	ErrDatabase = "DATABASE_ERROR"
)

// New creates an AppError with the given code.
func New(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

func NotFound(message string) *AppError {
	return New(ErrNotFound, message, nil)
}

func Forbidden(message string) *AppError {
	return New(ErrForbidden, message, nil)
}

func Conflict(message string, originalErr error) *AppError {
	return New(ErrConflict, message, originalErr)
}

func Validation(message string, originalErr error) *AppError {
	return New(ErrValidation, message, originalErr)
}

func BadRequest(message string) *AppError {
	return New(ErrBadRequest, message, nil)
}

// SelfReaction is the forbidden variant raised when a user reacts to their own post.
func SelfReaction() *AppError {
	return New(ErrSelfReaction, "cannot react to own post", nil)
}

func NothingToDo(message string) *AppError {
	return New(ErrNothingToDo, message, nil)
}

// CodeOf returns the code of the first AppError in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// IsForbidden reports whether err is an authorization failure, self-reaction included.
func IsForbidden(err error) bool {
	switch CodeOf(err) {
	case ErrForbidden, ErrSelfReaction:
		return true
	}
	return false
}

// HTTPStatus converts an AppError code to an HTTP status code.
func HTTPStatus(code string) int {
	switch code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest, ErrInactiveUser, ErrSelfReaction, ErrNothingToDo:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden, ErrInvalidToken:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	case ErrValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
