package middleware

import (
	"net/http"

	"messagely/internal/services"
	"messagely/internal/transport/httpdto"
	"messagely/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalErrorMessage = "internal server error"

// ErrorHandler writes the JSON error body for the last error a handler or
// middleware pushed with c.Error.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	if l == nil {
		l = logger.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := services.HTTPStatus(err)
		message := err.Error()
		if status == http.StatusInternalServerError {
			l.ErrorCtx(c.Request.Context(), "request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			message = internalErrorMessage
		}
		c.JSON(status, httpdto.NewErrorResponse(message, status, services.ErrorCode(err)))
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
