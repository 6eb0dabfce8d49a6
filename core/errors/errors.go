package errors

import "fmt"

type ErrorCode string

const (
	ErrInvalidInput         ErrorCode = "invalid_input"
	ErrInvalidRequestData   ErrorCode = "invalid_request_data"
	ErrNotFound             ErrorCode = "not_found"
	ErrAlreadyExists        ErrorCode = "already_exists"
	ErrOutsideServiceWindow ErrorCode = "outside_service_window"
	ErrNoCapacity           ErrorCode = "no_capacity"
	ErrInternalServer       ErrorCode = "internal_server_error"
)

// AppError is the error type services return. Code identifies the condition
// for the transport layer; Message is safe to show to callers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string, details any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Is reports whether err carries the given code.
func Is(err *AppError, code ErrorCode) bool {
	return err != nil && err.Code == code
}

// Internal wraps an unexpected failure so it is never silently swallowed.
func Internal(err error) *AppError {
	msg := "internal server error"
	if err != nil {
		msg = err.Error()
	}
	return NewAppError(ErrInternalServer, msg, nil)
}
