package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openaccred/accreditation-mgt-api/internal/apperror"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// Gin context keys set by middleware
const (
	ContextKeyActor         = "actor"
	ContextKeyCorrelationID = "correlation_id"
)

// SendErrorResponse sends an error JSON response
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.JSON(statusCode, models.ErrorResponse{
		Code:    errCode,
		Message: message,
		Details: details,
	})
}

// SendCreatedResponse sends a 201 Created response
func SendCreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendOKResponse sends a 200 OK response
func SendOKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendNoContentResponse sends a 204 No Content response
func SendNoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// SendBadRequestError sends a 400 Bad Request error
func SendBadRequestError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeBadRequest, message, details)
}

// SendForbiddenError sends a 403 Forbidden error
func SendForbiddenError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusForbidden, models.ErrCodeForbidden, message, "")
}

// SendServiceError maps a service-layer error to its HTTP response
func SendServiceError(c *gin.Context, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		SendErrorResponse(c, http.StatusNotFound, models.ErrCodeNotFound, err.Error(), "")
	case apperror.KindValidation:
		SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeValidationError, err.Error(), "")
	case apperror.KindConflict:
		SendErrorResponse(c, http.StatusConflict, models.ErrCodeConflict, err.Error(), "")
	case apperror.KindPermissionDenied:
		SendErrorResponse(c, http.StatusForbidden, models.ErrCodeForbidden, err.Error(), "")
	case apperror.KindDeletionFailed:
		SendErrorResponse(c, http.StatusInternalServerError, models.ErrCodeDeletionFailed, "Deletion failed", err.Error())
	default:
		SendErrorResponse(c, http.StatusInternalServerError, models.ErrCodeInternalError, "Internal server error", err.Error())
	}
}

// GetActorFromContext extracts the actor set by the actor middleware
func GetActorFromContext(c *gin.Context) models.ActorContext {
	value, exists := c.Get(ContextKeyActor)
	if !exists {
		return models.ActorContext{}
	}
	actor, ok := value.(models.ActorContext)
	if !ok {
		return models.ActorContext{}
	}
	return actor
}

// GetRequestMeta builds the audit metadata of the current request
func GetRequestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// ParseIDParam parses a positive integer path parameter
func ParseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		SendBadRequestError(c, "Invalid "+name, "must be a positive integer")
		return 0, false
	}
	return id, true
}
