package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Machine-readable error codes returned in JSON bodies. The frontend switches
// on these, so they are part of the API contract and must not be renamed.
const (
	CodeNoFile        = "no_file"
	CodeInvalidType   = "invalid_type"
	CodeFileTooLarge  = "file_too_large"
	CodeSaveFailed    = "save_failed"
	CodeUsernameTaken = "username_taken"
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Code    string // Optional: machine-readable code for the JSON body
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// ValidationCode is ValidationFailed plus an explicit machine-readable code,
// used where the frontend needs more than the generic "validation_error"
// (photo upload rejections, username collisions).
func ValidationCode(code, field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
		Code:    code,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// SaveFailed wraps an unexpected persistence failure. Handlers map it to a
// 500 with code save_failed; the message carries the underlying error text,
// which is acceptable for this internal tool.
func SaveFailed(err error) *AppError {
	return &AppError{
		Err:     err,
		Message: err.Error(),
		Code:    CodeSaveFailed,
	}
}

// Unauthorized returns an AppError for requests without a valid session.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
