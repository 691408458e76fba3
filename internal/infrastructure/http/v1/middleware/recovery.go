// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"hermes/internal/core/apperror"
	"hermes/pkg/logger"
)

// Recovery recovers from panics and answers 500. It must be the outermost
// middleware: a panic unwinds past ErrorHandler, so Recovery writes the
// response itself. Wiring errors such as a missing notification sink end up
// here and are logged, never shown to the user.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				cause, ok := rec.(error)
				if !ok {
					cause = fmt.Errorf("panic: %v", rec)
				}

				logger.Error(c.Request.Context(), "panic recovered",
					"error", cause,
					"configuration", apperror.IsConfiguration(cause),
					"stack", string(debug.Stack()),
				)

				appErr := apperror.NewInternal(cause).
					WithDetail("request_id", c.GetString(RequestIDKey))
				_ = c.Error(appErr)
				if !c.Writer.Written() {
					c.AbortWithStatusJSON(appErr.HTTPStatus, errorBody(c, appErr))
					return
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
