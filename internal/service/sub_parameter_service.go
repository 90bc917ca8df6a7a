package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/openaccred/accreditation-mgt-api/internal/apperror"
	"github.com/openaccred/accreditation-mgt-api/internal/dao"
	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/storage"
)

// SubParameterService handles business logic for sub-parameters
type SubParameterService struct {
	subParameterDAO *dao.SubParameterDAO
	parameterDAO    *dao.ParameterDAO
	evidenceDAO     *dao.EvidenceDAO
	activityDAO     *dao.ActivityLogDAO
	files           *storage.FileStore
	audit           *AuditRecorder
	db              *database.DB
	logger          *logrus.Logger
}

// NewSubParameterService creates a new SubParameterService
func NewSubParameterService(
	subParameterDAO *dao.SubParameterDAO,
	parameterDAO *dao.ParameterDAO,
	evidenceDAO *dao.EvidenceDAO,
	activityDAO *dao.ActivityLogDAO,
	files *storage.FileStore,
	audit *AuditRecorder,
	db *database.DB,
	logger *logrus.Logger,
) *SubParameterService {
	return &SubParameterService{
		subParameterDAO: subParameterDAO,
		parameterDAO:    parameterDAO,
		evidenceDAO:     evidenceDAO,
		activityDAO:     activityDAO,
		files:           files,
		audit:           audit,
		db:              db,
		logger:          logger,
	}
}

// CreateSubParameter creates a new sub-parameter under a parameter
func (s *SubParameterService) CreateSubParameter(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, parameterID int64, req *models.SubParameterCreateRequest) (*models.SubParameter, error) {
	status := req.Status
	if status == "" {
		status = models.StatusActive
	}
	if !models.IsValidEntityStatus(status) {
		return nil, apperror.Validation("invalid status: %s", status)
	}
	if req.Weight < 0 {
		return nil, apperror.Validation("weight must be non-negative")
	}

	if _, err := s.parameterDAO.GetByID(ctx, parameterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("parameter", parameterID)
		}
		return nil, apperror.Internal("failed to get parameter", err)
	}

	subParameter := &models.SubParameter{
		ParameterID: parameterID,
		Name:        req.Name,
		Description: req.Description,
		Weight:      req.Weight,
		Status:      status,
	}

	id, err := s.subParameterDAO.Create(ctx, subParameter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create sub-parameter")
		return nil, apperror.Internal("failed to create sub-parameter", err)
	}

	s.audit.Record(ctx, actor, meta, models.ActivityCreate,
		fmt.Sprintf("Created sub-parameter '%s' under parameter %d", req.Name, parameterID))

	return s.subParameterDAO.GetByID(ctx, id)
}

// GetSubParameter retrieves a sub-parameter by ID
func (s *SubParameterService) GetSubParameter(ctx context.Context, id int64) (*models.SubParameter, error) {
	subParameter, err := s.subParameterDAO.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("sub-parameter", id)
		}
		return nil, apperror.Internal("failed to get sub-parameter", err)
	}
	return subParameter, nil
}

// ListSubParameters retrieves all sub-parameters under a parameter
func (s *SubParameterService) ListSubParameters(ctx context.Context, parameterID int64) ([]models.SubParameter, error) {
	if _, err := s.parameterDAO.GetByID(ctx, parameterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("parameter", parameterID)
		}
		return nil, apperror.Internal("failed to get parameter", err)
	}

	subParameters, err := s.subParameterDAO.ListByParameter(ctx, parameterID)
	if err != nil {
		return nil, apperror.Internal("failed to list sub-parameters", err)
	}
	return subParameters, nil
}

// UpdateSubParameter replaces the full row of an existing sub-parameter
func (s *SubParameterService) UpdateSubParameter(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64, req *models.SubParameterUpdateRequest) (*models.SubParameter, error) {
	if !models.IsValidEntityStatus(req.Status) {
		return nil, apperror.Validation("invalid status: %s", req.Status)
	}
	if req.Weight < 0 {
		return nil, apperror.Validation("weight must be non-negative")
	}

	subParameter, err := s.GetSubParameter(ctx, id)
	if err != nil {
		return nil, err
	}

	subParameter.Name = req.Name
	subParameter.Description = req.Description
	subParameter.Weight = req.Weight
	subParameter.Status = req.Status

	if err := s.subParameterDAO.Update(ctx, subParameter); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("sub-parameter", id)
		}
		return nil, apperror.Internal("failed to update sub-parameter", err)
	}

	s.audit.Record(ctx, actor, meta, models.ActivityUpdate,
		fmt.Sprintf("Updated sub-parameter '%s'", req.Name))

	return s.subParameterDAO.GetByID(ctx, id)
}

// DeleteSubParameter deletes a sub-parameter and its attached evidence in one
// transaction. Evidence files are removed after commit, best-effort.
func (s *SubParameterService) DeleteSubParameter(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64) error {
	subParameter, err := s.GetSubParameter(ctx, id)
	if err != nil {
		return err
	}

	var evidencePaths []string

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		subParameterIDs := []int64{id}

		var err error
		evidencePaths, err = s.evidenceDAO.FilePathsByTargetsWithTx(ctx, tx, nil, subParameterIDs)
		if err != nil {
			return err
		}

		if err := s.evidenceDAO.DeleteByTargetsWithTx(ctx, tx, nil, subParameterIDs); err != nil {
			return err
		}
		if err := s.subParameterDAO.DeleteWithTx(ctx, tx, id); err != nil {
			return err
		}

		return s.activityDAO.CreateWithTx(ctx, tx, &models.ActivityLog{
			UserID:       actor.UserID,
			ActivityType: models.ActivityCascadeDelete,
			Description:  fmt.Sprintf("Deleted sub-parameter '%s' and attached evidence", subParameter.Name),
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
		})
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("sub-parameter", id)
		}
		s.logger.WithError(err).WithField("sub_parameter_id", id).Error("Sub-parameter cascade delete failed")
		return apperror.DeletionFailed("failed to delete sub-parameter", err)
	}

	s.files.RemoveAll(evidencePaths)

	return nil
}
