package models

import "time"

// Parameter represents a row in the parameters table. A parameter is a
// scored criterion within an area level.
type Parameter struct {
	ID          int64     `db:"id" json:"id"`
	AreaLevelID int64     `db:"area_level_id" json:"areaLevelId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Weight      float64   `db:"weight" json:"weight"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ParameterCreateRequest represents the API payload for creating a parameter
type ParameterCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight" binding:"gte=0"`
	Status      string  `json:"status"`
}

// ParameterUpdateRequest represents the API payload for updating a parameter
type ParameterUpdateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight" binding:"gte=0"`
	Status      string  `json:"status" binding:"required"`
}
