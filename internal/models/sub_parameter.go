package models

// SubParameter represents a row in the sub_parameters table. A sub-parameter
// is a finer-grained criterion within a parameter.
type SubParameter struct {
	ID          int64   `db:"id" json:"id"`
	ParameterID int64   `db:"parameter_id" json:"parameterId"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Weight      float64 `db:"weight" json:"weight"`
	Status      string  `db:"status" json:"status"`
}

// SubParameterCreateRequest represents the API payload for creating a sub-parameter
type SubParameterCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight" binding:"gte=0"`
	Status      string  `json:"status"`
}

// SubParameterUpdateRequest represents the API payload for updating a sub-parameter
type SubParameterUpdateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight" binding:"gte=0"`
	Status      string  `json:"status" binding:"required"`
}
