package daemon

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ginLogger logs requests to the status server through logrus. Metrics
// scrapes are frequent, so successful ones are only logged at trace level.
func ginLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// handlers may rewrite c.Request.URL.Path
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		statusCode := c.Writer.Status()
		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}

		entry := logger.WithFields(logrus.Fields{
			"statusCode": statusCode,
			"latency":    latency.Round(time.Microsecond).String(),
			"method":     c.Request.Method,
			"path":       path,
			"dataLength": size,
		})

		if len(c.Errors) > 0 {
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
			return
		}

		msg := fmt.Sprintf("%s %s %d", c.Request.Method, path, statusCode)
		switch {
		case statusCode >= http.StatusInternalServerError:
			entry.Error(msg)
		case statusCode >= http.StatusBadRequest:
			entry.Warn(msg)
		case path == "/metrics":
			entry.Trace(msg)
		default:
			entry.Debug(msg)
		}
	}
}
