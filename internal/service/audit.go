package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/openaccred/accreditation-mgt-api/internal/dao"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// AuditRecorder writes activity log rows. Outside of cascade deletes the
// audit trail is best-effort: a failed write is logged and never fails the
// calling operation.
type AuditRecorder struct {
	activityDAO *dao.ActivityLogDAO
	logger      *logrus.Logger
}

// NewAuditRecorder creates a new AuditRecorder
func NewAuditRecorder(activityDAO *dao.ActivityLogDAO, logger *logrus.Logger) *AuditRecorder {
	return &AuditRecorder{
		activityDAO: activityDAO,
		logger:      logger,
	}
}

// Record appends one activity log row, fire-and-forget.
func (r *AuditRecorder) Record(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, activityType, description string) {
	log := &models.ActivityLog{
		UserID:       actor.UserID,
		ActivityType: activityType,
		Description:  description,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}

	if err := r.activityDAO.Create(ctx, log); err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":       actor.UserID,
			"activity_type": activityType,
		}).Warn("Failed to write activity log")
	}
}

// List retrieves activity log rows for the audit view
func (r *AuditRecorder) List(ctx context.Context, limit, offset int) ([]models.ActivityLog, int, error) {
	logs, err := r.activityDAO.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.activityDAO.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
