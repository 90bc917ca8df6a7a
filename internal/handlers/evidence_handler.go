package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/service"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

// EvidenceHandler handles evidence-related HTTP requests
type EvidenceHandler struct {
	evidenceService   *service.EvidenceService
	permissionService *service.PermissionService
}

// NewEvidenceHandler creates a new evidence handler instance
func NewEvidenceHandler(evidenceService *service.EvidenceService, permissionService *service.PermissionService) *EvidenceHandler {
	return &EvidenceHandler{
		evidenceService:   evidenceService,
		permissionService: permissionService,
	}
}

// UploadToParameter handles POST /parameters/:parameterId/evidence
func (h *EvidenceHandler) UploadToParameter(c *gin.Context) {
	parameterID, ok := utils.ParseIDParam(c, "parameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, parameterID, models.KindParameter, models.ActionAdd) {
		return
	}

	h.upload(c, &parameterID, nil)
}

// UploadToSubParameter handles POST /sub-parameters/:subParameterId/evidence
func (h *EvidenceHandler) UploadToSubParameter(c *gin.Context) {
	subParameterID, ok := utils.ParseIDParam(c, "subParameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, subParameterID, models.KindSubParameter, models.ActionAdd) {
		return
	}

	h.upload(c, nil, &subParameterID)
}

func (h *EvidenceHandler) upload(c *gin.Context, parameterID, subParameterID *int64) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.SendBadRequestError(c, "Missing file", "multipart form field 'file' is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.SendBadRequestError(c, "Unreadable file", err.Error())
		return
	}
	defer f.Close()

	evidence, err := h.evidenceService.Upload(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		&service.EvidenceUploadRequest{
			ParameterID:    parameterID,
			SubParameterID: subParameterID,
			FileName:       fileHeader.Filename,
			ContentType:    fileHeader.Header.Get("Content-Type"),
			Size:           fileHeader.Size,
			Content:        f,
		},
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendCreatedResponse(c, evidence)
}

// ListByParameter handles GET /parameters/:parameterId/evidence
func (h *EvidenceHandler) ListByParameter(c *gin.Context) {
	parameterID, ok := utils.ParseIDParam(c, "parameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, parameterID, models.KindParameter, models.ActionView) {
		return
	}

	rows, err := h.evidenceService.ListByParameter(c.Request.Context(), parameterID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, models.ListResponse{Data: rows})
}

// ListBySubParameter handles GET /sub-parameters/:subParameterId/evidence
func (h *EvidenceHandler) ListBySubParameter(c *gin.Context) {
	subParameterID, ok := utils.ParseIDParam(c, "subParameterId")
	if !ok {
		return
	}

	if !requirePermission(c, h.permissionService, subParameterID, models.KindSubParameter, models.ActionView) {
		return
	}

	rows, err := h.evidenceService.ListBySubParameter(c.Request.Context(), subParameterID)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, models.ListResponse{Data: rows})
}

// permissionTarget resolves the kind and entity ID an evidence row is
// attached to, for permission checks on row-addressed routes.
func permissionTarget(evidence *models.Evidence) (int64, models.EntityKind) {
	if evidence.ParameterID != nil {
		return *evidence.ParameterID, models.KindParameter
	}
	return *evidence.SubParameterID, models.KindSubParameter
}

// GetEvidence handles GET /evidence/:evidenceId
func (h *EvidenceHandler) GetEvidence(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "evidenceId")
	if !ok {
		return
	}

	evidence, err := h.evidenceService.GetEvidence(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	targetID, kind := permissionTarget(evidence)
	if !requirePermission(c, h.permissionService, targetID, kind, models.ActionView) {
		return
	}

	utils.SendOKResponse(c, evidence)
}

// Download handles GET /evidence/:evidenceId/download
func (h *EvidenceHandler) Download(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "evidenceId")
	if !ok {
		return
	}

	evidence, err := h.evidenceService.GetEvidence(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	targetID, kind := permissionTarget(evidence)
	if !requirePermission(c, h.permissionService, targetID, kind, models.ActionDownload) {
		return
	}

	evidence, f, err := h.evidenceService.Download(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}
	defer f.Close()

	c.DataFromReader(http.StatusOK, evidence.FileSize, evidence.FileType, f, map[string]string{
		"Content-Disposition": `attachment; filename="` + evidence.FileName + `"`,
	})
}

// UpdateStatus handles PATCH /evidence/:evidenceId/status
func (h *EvidenceHandler) UpdateStatus(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "evidenceId")
	if !ok {
		return
	}

	var req models.EvidenceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	evidence, err := h.evidenceService.GetEvidence(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	targetID, kind := permissionTarget(evidence)
	if !requirePermission(c, h.permissionService, targetID, kind, models.ActionApprove) {
		return
	}

	evidence, err = h.evidenceService.Review(
		c.Request.Context(),
		utils.GetActorFromContext(c),
		utils.GetRequestMeta(c),
		id,
		req.Status,
	)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	utils.SendOKResponse(c, evidence)
}

// DeleteEvidence handles DELETE /evidence/:evidenceId
func (h *EvidenceHandler) DeleteEvidence(c *gin.Context) {
	id, ok := utils.ParseIDParam(c, "evidenceId")
	if !ok {
		return
	}

	evidence, err := h.evidenceService.GetEvidence(c.Request.Context(), id)
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	targetID, kind := permissionTarget(evidence)
	if !requirePermission(c, h.permissionService, targetID, kind, models.ActionDelete) {
		return
	}

	err = h.evidenceService.Delete(
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
