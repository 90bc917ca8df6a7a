package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// CorrelationID tags every request with a correlation ID, taken from a known
// header or freshly generated, and echoes it in the response.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := extractCorrelationID(c)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		c.Set(utils.ContextKeyCorrelationID, correlationID)
		c.Header("X-Correlation-ID", correlationID)
		c.Next()
	}
}

func extractCorrelationID(c *gin.Context) string {
	headers := []string{"X-Correlation-ID", "X-Request-ID", "X-Trace-ID"}
	for _, header := range headers {
		if id := c.GetHeader(header); id != "" {
			return id
		}
	}
	return ""
}
