package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/config"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// BasicAuth enforces HTTP basic authentication against the configured users
// when enabled.
func BasicAuth(security *config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !security.IsBasicAuthEnabled() {
			c.Next()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok || !security.ValidateUser(username, password) {
			c.Header("WWW-Authenticate", `Basic realm="accreditation-mgt"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    models.ErrCodeUnauthorized,
				Message: "Authentication required",
			})
			return
		}

		c.Next()
	}
}
