package util

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Warning string `json:"warning,omitempty"`
}

// HandleError logs the detailed error and returns a generic error message to the user
func HandleError(c *gin.Context, statusCode int, userMessage string, detailedError error) {
	if detailedError != nil {
		log.WithError(detailedError).WithField("path", c.Request.URL.Path).Error(userMessage)
	}

	c.JSON(statusCode, ErrorResponse{
		Error: userMessage,
	})
}

// HandleErrorWithWarning logs the detailed error and returns a generic error message with warning
func HandleErrorWithWarning(c *gin.Context, statusCode int, userMessage string, warning string, detailedError error) {
	if detailedError != nil {
		log.WithError(detailedError).WithField("path", c.Request.URL.Path).Error(userMessage)
	}

	c.JSON(statusCode, ErrorResponse{
		Error:   userMessage,
		Warning: warning,
	})
}

// Common error messages for different scenarios
const (
	ErrInvalidRequest     = "Invalid request"
	ErrUnauthorized       = "Unauthorized"
	ErrFeedbackNotFound   = "Feedback not found"
	ErrProfileNotFound    = "Colleague not found"
	ErrSubmissionFailed   = "Failed to submit feedback, please try again"
	ErrMissingReceiver    = "Please choose who the feedback is for"
	ErrTooManyRequests    = "Too many submissions, please wait a moment"
	ErrDatabaseOperation  = "Database operation failed"
	ErrNotSupported       = "Operation not supported"
	ErrInvalidSession     = "Invalid or expired access token"
)

// Common warning messages
const (
	WarningPostgresOnly = "This operation requires a postgres database"
)
