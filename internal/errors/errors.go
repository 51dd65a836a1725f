package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes form a closed taxonomy: every mutating operation either
// succeeds or surfaces exactly one of these.
const (
	ErrCodeNotAuthorized        = "NOT_AUTHORIZED"
	ErrCodeProjectNotFound      = "PROJECT_NOT_FOUND"
	ErrCodeMilestoneNotFound    = "MILESTONE_NOT_FOUND"
	ErrCodeTaskNotFound         = "TASK_NOT_FOUND"
	ErrCodeInvalidDeadline      = "INVALID_DEADLINE"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeAlreadyExists        = "ALREADY_EXISTS"
	ErrCodeInvalidStatus        = "INVALID_STATUS"
	ErrCodeInvalidRole          = "INVALID_ROLE"
	ErrCodeDependencyIncomplete = "DEPENDENCY_INCOMPLETE"

	// Dispatcher-level codes (auth/session/validation, outside the ledger core)
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// NotAuthorized sends a 403 response with the ledger's NOT_AUTHORIZED code
func NotAuthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Caller lacks the required rank"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeNotAuthorized, message))
}

// NotFound sends a 404 response with the given not-found code
func NotFound(c *gin.Context, code, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(code, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// UnprocessableEntity sends a 422 response with the given precondition code
func UnprocessableEntity(c *gin.Context, code, message string) {
	RespondWithError(c, http.StatusUnprocessableEntity, NewAPIError(code, message))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, code, message string) {
	if message == "" {
		message = "Resource conflict"
	}
	RespondWithError(c, http.StatusConflict, NewAPIError(code, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
