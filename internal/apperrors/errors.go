package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientBalance indicates that a guarded append would overdraw the account.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrConflict indicates lock or transaction contention; the operation may be retried.
var ErrConflict = errors.New("concurrent modification conflict")

// ErrUnavailable indicates the underlying store failed; the request is not retried.
var ErrUnavailable = errors.New("store unavailable")

// AppError carries a status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
