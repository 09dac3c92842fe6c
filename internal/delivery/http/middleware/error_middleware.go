package middleware

import (
	"errors"
	"go-hr-tracker/internal/delivery/http/response"
	"go-hr-tracker/pkg/apperror"
	"go-hr-tracker/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandler maps errors appended to the gin context onto the response
// envelope. AppErrors keep their status and message; anything else is
// logged server-side and surfaced as a generic 500 so internal details
// never leak.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				logger.Log.Error("Unhandled request error", "error", err, "path", c.Request.URL.Path)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
