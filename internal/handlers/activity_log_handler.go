package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/service"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// ActivityLogHandler handles audit-trail HTTP requests
type ActivityLogHandler struct {
	audit *service.AuditRecorder
}

// NewActivityLogHandler creates a new activity log handler instance
func NewActivityLogHandler(audit *service.AuditRecorder) *ActivityLogHandler {
	return &ActivityLogHandler{audit: audit}
}

// ListActivityLogs handles GET /activity-logs
func (h *ActivityLogHandler) ListActivityLogs(c *gin.Context) {
	params := utils.PaginationFromQuery(c)

	rows, total, err := h.audit.List(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, gin.H{
		"data":       rows,
		"pagination": utils.CalculatePaginationMetadata(total, params.Limit, params.Offset),
	})
}
