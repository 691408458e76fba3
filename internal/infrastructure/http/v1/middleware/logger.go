package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"hermes/pkg/logger"
)

// Logger stores log in the request context and logs every request with
// timing, status and the number of notifications shown.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		log.WithContext(c.Request.Context()).Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"notifications", Collector(c).Len(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}
