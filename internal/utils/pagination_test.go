package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewPaginationParamsDefaults tests defaulting and clamping
func TestNewPaginationParamsDefaults(t *testing.T) {
	params := NewPaginationParams(0, 0)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, 0, params.Offset)

	params = NewPaginationParams(-5, -10)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, 0, params.Offset)

	params = NewPaginationParams(500, 40)
	assert.Equal(t, 100, params.Limit)
	assert.Equal(t, 40, params.Offset)
}

// TestCalculatePaginationMetadata tests the hasMore computation
func TestCalculatePaginationMetadata(t *testing.T) {
	meta := CalculatePaginationMetadata(45, 20, 0)
	assert.Equal(t, 45, meta.Total)
	assert.True(t, meta.HasMore)

	meta = CalculatePaginationMetadata(45, 20, 40)
	assert.False(t, meta.HasMore)

	meta = CalculatePaginationMetadata(0, 20, 0)
	assert.False(t, meta.HasMore)
}
