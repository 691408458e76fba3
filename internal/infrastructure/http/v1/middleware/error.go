package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hermes/internal/core/apperror"
	"hermes/pkg/logger"
)

// ErrorHandler transforms errors registered with c.Error into consistent JSON
// responses. Internal causes are logged but never exposed to clients. The
// notifications collected during the request travel with the error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}
			c.JSON(appErr.HTTPStatus, errorBody(c, appErr))
			return
		}

		logger.Error(c.Request.Context(), "unhandled error", "error", err)
		internal := apperror.NewInternal(err).WithDetail("request_id", c.GetString(RequestIDKey))
		c.JSON(http.StatusInternalServerError, errorBody(c, internal))
	}
}

func errorBody(c *gin.Context, appErr *apperror.AppError) gin.H {
	return gin.H{
		"code":          appErr.Code,
		"message":       appErr.Message,
		"details":       appErr.Details,
		"notifications": Notifications(c),
	}
}
