package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/service"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// AreaLevelHandler handles area-level-related HTTP requests
type AreaLevelHandler struct {
	areaService *service.AreaLevelService
}

// NewAreaLevelHandler creates a new area level handler instance
func NewAreaLevelHandler(areaService *service.AreaLevelService) *AreaLevelHandler {
	return &AreaLevelHandler{areaService: areaService}
}

// CreateAreaLevel handles POST /programs/:programId/areas
func (h *AreaLevelHandler) CreateAreaLevel(c *gin.Context) {
	programID, ok := utils.ParseIDParam(c, "programId")
	if !ok {
		return
	}

	var req models.AreaLevelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	area, err := h.areaService.CreateAreaLevel(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		programID,
		&req,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreatedResponse(c, area)
}

// ListAreaLevels handles GET /programs/:programId/areas
func (h *AreaLevelHandler) ListAreaLevels(c *gin.Context) {
	programID, ok := utils.ParseIDParam(c, "programId")
	if !ok {
		return
	}

	areas, err := h.areaService.ListAreaLevels(c.Request.Context(), programID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, models.ListResponse{Data: areas})
}

// GetAreaLevel handles GET /areas/:areaId
func (h *AreaLevelHandler) GetAreaLevel(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "areaId")
	if !ok {
		return
	}

	area, err := h.areaService.GetAreaLevel(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, area)
}

// UpdateAreaLevel handles PUT /areas/:areaId
func (h *AreaLevelHandler) UpdateAreaLevel(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "areaId")
	if !ok {
		return
	}

	var req models.AreaLevelUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	area, err := h.areaService.UpdateAreaLevel(
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

	utils.SendOKResponse(c, area)
}

// DeleteAreaLevel handles DELETE /areas/:areaId
func (h *AreaLevelHandler) DeleteAreaLevel(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "areaId")
	if !ok {
		return
	}

	err := h.areaService.DeleteAreaLevel(
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
