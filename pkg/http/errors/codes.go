package errors

// Error codes for standardized error responses
const (
	// Request errors
	ErrCodeBadRequest       = "bad_request"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnprocessable    = "unprocessable"

	// Resource errors
	ErrCodeNotFound = "not_found"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
)

// Default messages, matching the legacy trivia client.
const (
	MsgBadRequest    = "Bad request"
	MsgNotFound      = "Not Found"
	MsgUnprocessable = "Unprocessable request"
	MsgInternal      = "Internal Server Error"
)
