package api

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ErrorCode defines standard error codes.
type ErrorCode string

const ErrCodeNotFound ErrorCode = "NOT_FOUND"

// NewErrorResponse creates a new error response.
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   string(code),
		Message: message,
		Code:    string(code),
	}
}

// AbortWithError aborts the request with a standardized error response.
func AbortWithError(c *gin.Context, status int, code ErrorCode, message string) {
	c.AbortWithStatusJSON(status, NewErrorResponse(code, message))
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string            `json:"status"`
	Books    int               `json:"books"`
	Services map[string]string `json:"services"`
}

// NewHealthResponse creates a new health response.
func NewHealthResponse(books int, services map[string]string) *HealthResponse {
	status := "healthy"
	for _, v := range services {
		if v != "healthy" {
			status = "degraded"
			break
		}
	}

	return &HealthResponse{
		Status:   status,
		Books:    books,
		Services: services,
	}
}
