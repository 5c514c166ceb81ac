package response

import (
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Message sends a body holding only a human readable message
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// Error sends an error response. Errors that are not already an AppError are
// mapped by their domain sentinel, anything else becomes a 500.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.From(err)
	if appErr.Status >= 500 {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(appErr.Status, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
