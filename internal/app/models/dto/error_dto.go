package dto

// ErrorCode is a stable machine-readable error kind carried next to the
// human-readable message.
type ErrorCode string

const (
	ErrorCodeValidation   ErrorCode = "VALIDATION"
	ErrorCodeConflict     ErrorCode = "CONFLICT"
	ErrorCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrorCodeInternal     ErrorCode = "INTERNAL"
)

// ErrorResponse is the standard error payload. Clients display Message;
// Code is for programmatic handling.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}
