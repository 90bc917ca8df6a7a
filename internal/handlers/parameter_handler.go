package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/service"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// ParameterHandler handles parameter-related HTTP requests. Mutations on an
// existing parameter consult the permission resolver before the service
// runs; structural creation under an area is admin-guarded in the router.
type ParameterHandler struct {
	parameterService  *service.ParameterService
	permissionService *service.PermissionService
}

// NewParameterHandler creates a new parameter handler instance
func NewParameterHandler(parameterService *service.ParameterService, permissionService *service.PermissionService) *ParameterHandler {
	return &ParameterHandler{
		parameterService:  parameterService,
		permissionService: permissionService,
	}
}

// requirePermission resolves the actor's grant for the action and sends the
// error response when denied. Returns true when the operation may proceed.
func requirePermission(c *gin.Context, permissionService *service.PermissionService, entityID int64, kind models.EntityKind, action models.Action) bool {
	allowed, err := permissionService.CanPerform(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		entityID,
		kind,
		action,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return false
	}
	if !allowed {
		utils.SendForbiddenError(c, "You do not have permission to "+string(action)+" this "+string(kind))
		return false
	}
	return true
}

// CreateParameter handles POST /areas/:areaId/parameters
func (h *ParameterHandler) CreateParameter(c *gin.Context) {
	areaID, ok := utils.ParseIDParam(c, "areaId")
	if !ok {
		return
	}

	var req models.ParameterCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	parameter, err := h.parameterService.CreateParameter(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		areaID,
		&req,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreatedResponse(c, parameter)
}

// ListParameters handles GET /areas/:areaId/parameters
func (h *ParameterHandler) ListParameters(c *gin.Context) {
	areaID, ok := utils.ParseIDParam(c, "areaId")
	if !ok {
		return
	}

	parameters, err := h.parameterService.ListParameters(c.Request.Context(), areaID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, models.ListResponse{Data: parameters})
}

// GetParameter handles GET /parameters/:parameterId
func (h *ParameterHandler) GetParameter(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "parameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, id, models.KindParameter, models.ActionView) {
		return
	}

	parameter, err := h.parameterService.GetParameter(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, parameter)
}

// UpdateParameter handles PUT /parameters/:parameterId
func (h *ParameterHandler) UpdateParameter(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "parameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, id, models.KindParameter, models.ActionEdit) {
		return
	}

	var req models.ParameterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	parameter, err := h.parameterService.UpdateParameter(
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

	utils.SendOKResponse(c, parameter)
}

// DeleteParameter handles DELETE /parameters/:parameterId
func (h *ParameterHandler) DeleteParameter(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "parameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, id, models.KindParameter, models.ActionDelete) {
		return
	}

	err := h.parameterService.DeleteParameter(
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
