package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationParams holds pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// PaginationMetadata holds pagination metadata for responses
type PaginationMetadata struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// NewPaginationParams creates pagination params with defaults applied
func NewPaginationParams(limit, offset int) PaginationParams {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}
}

// PaginationFromQuery reads limit/offset query parameters
func PaginationFromQuery(c *gin.Context) PaginationParams {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return NewPaginationParams(limit, offset)
}

// CalculatePaginationMetadata calculates pagination metadata
func CalculatePaginationMetadata(total, limit, offset int) PaginationMetadata {
	return PaginationMetadata{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: (offset + limit) < total,
	}
}
