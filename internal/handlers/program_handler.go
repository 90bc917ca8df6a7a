package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/service"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// ProgramHandler handles program-related HTTP requests
type ProgramHandler struct {
	programService *service.ProgramService
}

// NewProgramHandler creates a new program handler instance
func NewProgramHandler(programService *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// CreateProgram handles POST /programs
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req models.ProgramCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	program, err := h.programService.CreateProgram(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		&req,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreatedResponse(c, program)
}

// ListPrograms handles GET /programs
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	pagination := utils.PaginationFromQuery(c)

	programs, total, err := h.programService.ListPrograms(c.Request.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, models.ListResponse{
		Data:       programs,
		Pagination: utils.CalculatePaginationMetadata(total, pagination.Limit, pagination.Offset),
	})
}

// GetProgram handles GET /programs/:programId
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "programId")
	if !ok {
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, program)
}

// UpdateProgram handles PUT /programs/:programId
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "programId")
	if !ok {
		return
	}

	var req models.ProgramUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	program, err := h.programService.UpdateProgram(
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

	utils.SendOKResponse(c, program)
}

// DeleteProgram handles DELETE /programs/:programId
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "programId")
	if !ok {
		return
	}

	err := h.programService.DeleteProgram(
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
