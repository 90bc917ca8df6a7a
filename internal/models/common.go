package models

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Common error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeDatabaseError   = "DATABASE_ERROR"
	ErrCodeValidationError = "VALIDATION_ERROR"
	ErrCodeDeletionFailed  = "DELETION_FAILED"
)

// Lifecycle statuses of hierarchy rows (programs, areas, parameters,
// sub-parameters)
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// IsValidEntityStatus reports whether status is a known hierarchy row status
func IsValidEntityStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// ListResponse wraps a paginated collection response
type ListResponse struct {
	Data       interface{} `json:"data"`
	Pagination interface{} `json:"pagination,omitempty"`
}
