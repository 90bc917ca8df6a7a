package models

import "time"

// Activity types recorded in the audit trail
const (
	ActivityCreate          = "create"
	ActivityUpdate          = "update"
	ActivityDelete          = "delete"
	ActivityCascadeDelete   = "cascade_delete"
	ActivityEvidenceUpload  = "evidence_upload"
	ActivityEvidenceReview  = "evidence_review"
	ActivityPermissionGrant = "permission_grant"
)

// ActivityLog represents a row in the append-only activity_logs table.
type ActivityLog struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"userId"`
	ActivityType string    `db:"activity_type" json:"activityType"`
	Description  string    `db:"description" json:"description"`
	IPAddress    string    `db:"ip_address" json:"ipAddress"`
	UserAgent    string    `db:"user_agent" json:"userAgent"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
