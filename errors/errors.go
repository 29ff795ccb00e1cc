// Package errors holds the error type the control API renders. The code
// decides the HTTP status and whether a client should retry.
package errors

import (
	"fmt"
	"maps"
)

// AppError is a control API failure.
type AppError struct {
	Code       ErrorCode
	Message    string
	Retryable  bool
	HTTPStatus int
	Details    map[string]any
	Cause      error
}

// New builds an AppError whose status and retry flag follow code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Retryable:  code.Retryable(),
		HTTPStatus: code.Status(),
	}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the error that triggered e. The cause is logged, never
// sent to the client.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one key to the details object of the response body.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// InvalidInput rejects a request body; field names the offending member
// and may be empty.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "invalid input: "+reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation rejects a request body that decoded but failed its rules.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// ServiceUnavailable reports that service no longer accepts work, which for
// ntfywatch means the registry is closing.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, service+" is unavailable").WithDetail("service", service)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "unexpected error").WithCause(cause)
}

func (e *AppError) detailsCopy() map[string]any {
	if len(e.Details) == 0 {
		return nil
	}
	return maps.Clone(e.Details)
}
