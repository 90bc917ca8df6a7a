package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// Headers set by the upstream auth layer. Session handling and credential
// verification are outside this service; it only consumes the resolved
// identity.
const (
	HeaderUserID       = "X-User-ID"
	HeaderCapabilities = "X-User-Capabilities"
)

// ActorContext builds the explicit actor of the request from the identity
// headers and aborts with 401 when they are missing.
func ActorContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.GetHeader(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    models.ErrCodeUnauthorized,
				Message: "Missing or invalid " + HeaderUserID + " header",
			})
			return
		}

		var capabilities []string
		if raw := c.GetHeader(HeaderCapabilities); raw != "" {
			for _, capability := range strings.Split(raw, ",") {
				if capability = strings.TrimSpace(capability); capability != "" {
					capabilities = append(capabilities, capability)
				}
			}
		}

		c.Set(utils.ContextKeyActor, models.ActorContext{
			UserID:       userID,
			Capabilities: capabilities,
		})

		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the actor holds the admin capability.
// Used for program and area level management routes, which are not covered
// by row-level grants.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := utils.GetActorFromContext(c)
		if !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Code:    models.ErrCodeForbidden,
				Message: "Administrator capability required",
			})
			return
		}
		c.Next()
	}
}
