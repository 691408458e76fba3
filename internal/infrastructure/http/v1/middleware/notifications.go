package middleware

import (
	"github.com/gin-gonic/gin"

	"hermes/internal/core/notify"
)

// CollectorKey is the gin context key of the per-request notification collector.
const CollectorKey = "notify_collector"

// Collect gives every request its own notify.Collector.
func Collect() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CollectorKey, notify.NewCollector())
		c.Next()
	}
}

// Collector returns the collector of the request, creating one if Collect
// did not run.
func Collector(c *gin.Context) *notify.Collector {
	if v, ok := c.Get(CollectorKey); ok {
		if col, ok := v.(*notify.Collector); ok {
			return col
		}
	}
	col := notify.NewCollector()
	c.Set(CollectorKey, col)
	return col
}

// Notifications returns what was collected so far; never nil.
func Notifications(c *gin.Context) []string {
	return Collector(c).Messages()
}
