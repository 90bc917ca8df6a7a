package models

// AreaLevel represents a row in the area_levels table. An area level is a
// named evaluation category within a program.
type AreaLevel struct {
	ID          int64  `db:"id" json:"id"`
	ProgramID   int64  `db:"program_id" json:"programId"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Status      string `db:"status" json:"status"`
}

// AreaLevelCreateRequest represents the API payload for creating an area level
type AreaLevelCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// AreaLevelUpdateRequest represents the API payload for updating an area level
type AreaLevelUpdateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
}
