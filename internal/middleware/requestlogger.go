package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// RequestLogger writes one structured access log line per request.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.WithFields(logrus.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"duration_ms":    time.Since(start).Milliseconds(),
			"client_ip":      c.ClientIP(),
			"correlation_id": c.GetString(utils.ContextKeyCorrelationID),
		}).Info("Request handled")
	}
}
