package models

import "time"

// Evidence status values
const (
	EvidenceStatusPending  = "pending"
	EvidenceStatusApproved = "approved"
	EvidenceStatusRejected = "rejected"
)

// Evidence represents a row in the evidence table. An evidence row is always
// attached to exactly one of a parameter or a sub-parameter, never both.
type Evidence struct {
	ID             int64     `db:"id" json:"id"`
	ParameterID    *int64    `db:"parameter_id" json:"parameterId,omitempty"`
	SubParameterID *int64    `db:"sub_parameter_id" json:"subParameterId,omitempty"`
	FileName       string    `db:"file_name" json:"fileName"`
	FilePath       string    `db:"file_path" json:"-"`
	FileType       string    `db:"file_type" json:"fileType"`
	FileSize       int64     `db:"file_size" json:"fileSize"`
	Status         string    `db:"status" json:"status"`
	UploadedBy     int64     `db:"uploaded_by" json:"uploadedBy"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// EvidenceStatusRequest represents the API payload for reviewing evidence
type EvidenceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// IsValidEvidenceStatus reports whether status is a known evidence status
func IsValidEvidenceStatus(status string) bool {
	switch status {
	case EvidenceStatusPending, EvidenceStatusApproved, EvidenceStatusRejected:
		return true
	}
	return false
}
