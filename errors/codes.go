package errors

import "net/http"

// ErrorCode is the machine-readable code in a control API error body.
type ErrorCode string

const (
	// ErrCodeInvalidInput rejects a malformed or incomplete request body.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeServiceUnavailable means the subscription registry is shutting down.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeInternal covers everything else.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var codeStatus = map[ErrorCode]int{
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// Status is the HTTP status the control API answers with for c.
// Unknown codes map to 500.
func (c ErrorCode) Status() int {
	if s, ok := codeStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Retryable reports whether a client may repeat the request unchanged.
func (c ErrorCode) Retryable() bool {
	return c == ErrCodeServiceUnavailable
}
