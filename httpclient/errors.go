package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCode classifies why a stream could not be opened.
type ErrorCode int

const (
	// ErrCodeTimeout means the dial or TLS handshake timed out.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection means the broker could not be reached.
	ErrCodeConnection
	// ErrCodeAuth is a 401 or 403 from the broker.
	ErrCodeAuth
	// ErrCodeNotFound is a 404 from the broker.
	ErrCodeNotFound
	// ErrCodeRateLimit is a 429 from the broker.
	ErrCodeRateLimit
	// ErrCodeValidation is any other 4xx, or a request that could not be built.
	ErrCodeValidation
	// ErrCodeServer is a 5xx from the broker.
	ErrCodeServer
	// ErrCodeCanceled means the caller's context ended the request.
	ErrCodeCanceled
)

var codeNames = [...]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeValidation: "validation",
	ErrCodeServer:     "server",
	ErrCodeCanceled:   "canceled",
}

// String returns the code name used in logs and metric attributes.
func (c ErrorCode) String() string {
	if c < 0 || int(c) >= len(codeNames) {
		return "unknown"
	}
	return codeNames[c]
}

// Error describes a failed attempt to open a stream.
type Error struct {
	// StatusCode is the broker's HTTP status, 0 when no response arrived.
	StatusCode int
	Code       ErrorCode
	Message    string
	// Retryable reports whether reconnecting later may succeed.
	Retryable bool
	// Body holds the start of the error response, if any.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// transportError classifies a request that failed before any response.
// A done context wins over the underlying network error.
func transportError(ctx context.Context, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Code: ErrCodeCanceled, Message: ctxErr.Error(), Err: ctxErr}
	}
	code := ErrCodeConnection
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		code = ErrCodeTimeout
	}
	return &Error{Code: code, Message: err.Error(), Retryable: true, Err: err}
}

// StatusError converts a non-2xx status into an *Error; 2xx returns nil.
func StatusError(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}

	e := &Error{
		StatusCode: status,
		Code:       ErrCodeValidation,
		Message:    fmt.Sprintf("HTTP %d %s", status, http.StatusText(status)),
		Body:       body,
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Code = ErrCodeAuth
	case status == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case status >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	case status < 400:
		// 1xx/3xx that the transport did not follow.
		e.Code = ErrCodeServer
	}
	return e
}

// IsRetryable reports whether err is an *Error worth reconnecting after.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// IsCanceled reports whether err came from the caller's context ending.
func IsCanceled(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeCanceled
}

// CodeOf returns the classification of err, if it is an *Error.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Code, true
}
