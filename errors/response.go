package errors

import stderrors "errors"

// ErrorResponse is the JSON body of every failed control API request:
//
//	{"error":{"code":"INVALID_INPUT","message":"...","retryable":false}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the inner object of ErrorResponse.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse renders e for the client. Cause is left out.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.detailsCopy(),
	}}
}

// AsAppError finds an *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
