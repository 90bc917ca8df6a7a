package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/service"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// SubParameterHandler handles sub-parameter-related HTTP requests
type SubParameterHandler struct {
	subParameterService *service.SubParameterService
	permissionService   *service.PermissionService
}

// NewSubParameterHandler creates a new sub-parameter handler instance
func NewSubParameterHandler(subParameterService *service.SubParameterService, permissionService *service.PermissionService) *SubParameterHandler {
	return &SubParameterHandler{
		subParameterService: subParameterService,
		permissionService:   permissionService,
	}
}

// CreateSubParameter handles POST /parameters/:parameterId/sub-parameters
func (h *SubParameterHandler) CreateSubParameter(c *gin.Context) {
	parameterID, ok := utils.ParseIDParam(c, "parameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, parameterID, models.KindParameter, models.ActionAdd) {
		return
	}

	var req models.SubParameterCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	subParameter, err := h.subParameterService.CreateSubParameter(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		parameterID,
		&req,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreatedResponse(c, subParameter)
}

// ListSubParameters handles GET /parameters/:parameterId/sub-parameters
func (h *SubParameterHandler) ListSubParameters(c *gin.Context) {
	parameterID, ok := utils.ParseIDParam(c, "parameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, parameterID, models.KindParameter, models.ActionView) {
		return
	}

	subParameters, err := h.subParameterService.ListSubParameters(c.Request.Context(), parameterID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, models.ListResponse{Data: subParameters})
}

// GetSubParameter handles GET /sub-parameters/:subParameterId
func (h *SubParameterHandler) GetSubParameter(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "subParameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, id, models.KindSubParameter, models.ActionView) {
		return
	}

	subParameter, err := h.subParameterService.GetSubParameter(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, subParameter)
}

// UpdateSubParameter handles PUT /sub-parameters/:subParameterId
func (h *SubParameterHandler) UpdateSubParameter(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "subParameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, id, models.KindSubParameter, models.ActionEdit) {
		return
	}

	var req models.SubParameterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	subParameter, err := h.subParameterService.UpdateSubParameter(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		id,
		&req,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, subParameter)
}

// DeleteSubParameter handles DELETE /sub-parameters/:subParameterId
func (h *SubParameterHandler) DeleteSubParameter(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "subParameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, id, models.KindSubParameter, models.ActionDelete) {
		return
	}

	err := h.subParameterService.DeleteSubParameter(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		id,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendNoContentResponse(c)
}
