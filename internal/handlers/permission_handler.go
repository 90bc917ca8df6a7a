package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/service"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// PermissionHandler handles permission-assignment HTTP requests
type PermissionHandler struct {
	permissionService *service.PermissionService
}

// NewPermissionHandler creates a new permission handler instance
func NewPermissionHandler(permissionService *service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// ListParameterPermissions handles GET /parameters/:parameterId/permissions
func (h *PermissionHandler) ListParameterPermissions(c *gin.Context) {
	parameterID, ok := utils.ParseIDParam(c, "parameterId")
	if !ok {
		return
	}

	rows, err := h.permissionService.ListParameterPermissions(c.Request.Context(), parameterID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, models.ListResponse{Data: rows})
}

// SetParameterPermissions handles PUT /parameters/:parameterId/permissions
func (h *PermissionHandler) SetParameterPermissions(c *gin.Context) {
	parameterID, ok := utils.ParseIDParam(c, "parameterId")
	if !ok {
		return
	}

	var req models.PermissionAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	err := h.permissionService.SetParameterPermissions(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		parameterID,
		req.Grants,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendNoContentResponse(c)
}

// ListAreaPermissions handles GET /areas/:areaId/permissions
func (h *PermissionHandler) ListAreaPermissions(c *gin.Context) {
	areaID, ok := utils.ParseIDParam(c, "areaId")
	if !ok {
		return
	}

	rows, err := h.permissionService.ListAreaPermissions(c.Request.Context(), areaID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, models.ListResponse{Data: rows})
}

// SetAreaPermissions handles PUT /areas/:areaId/permissions
func (h *PermissionHandler) SetAreaPermissions(c *gin.Context) {
	areaID, ok := utils.ParseIDParam(c, "areaId")
	if !ok {
		return
	}

	var req models.PermissionAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	err := h.permissionService.SetAreaPermissions(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		areaID,
		req.Grants,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendNoContentResponse(c)
}
