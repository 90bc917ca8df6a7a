package dao

import (
	"context"
	"fmt"

	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// ActivityLogDAO handles database operations for the append-only audit trail
type ActivityLogDAO struct {
	db *database.DB
}

// NewActivityLogDAO creates a new ActivityLogDAO instance
func NewActivityLogDAO(db *database.DB) *ActivityLogDAO {
	return &ActivityLogDAO{db: db}
}

// Create inserts a new activity log row
func (dao *ActivityLogDAO) Create(ctx context.Context, log *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, activity_type, description, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(ctx, query,
		log.UserID,
		log.ActivityType,
		log.Description,
		log.IPAddress,
		log.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}

	return nil
}

// CreateWithTx inserts a new activity log row using a transaction
func (dao *ActivityLogDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, log *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, activity_type, description, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query,
		log.UserID,
		log.ActivityType,
		log.Description,
		log.IPAddress,
		log.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to create activity log with transaction: %w", err)
	}

	return nil
}

// List retrieves activity log rows newest first with pagination
func (dao *ActivityLogDAO) List(ctx context.Context, limit, offset int) ([]models.ActivityLog, error) {
	query := `
		SELECT id, user_id, activity_type, description, ip_address, user_agent, created_at
		FROM activity_logs
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`

	var logs []models.ActivityLog
	err := dao.db.SelectContext(ctx, &logs, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}

	return logs, nil
}

// Count returns the total number of activity log rows
func (dao *ActivityLogDAO) Count(ctx context.Context) (int, error) {
	var count int
	err := dao.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM activity_logs`)
	if err != nil {
		return 0, fmt.Errorf("failed to count activity logs: %w", err)
	}
	return count, nil
}
