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

// ParameterService handles business logic for parameters
type ParameterService struct {
	parameterDAO    *dao.ParameterDAO
	areaDAO         *dao.AreaLevelDAO
	subParameterDAO *dao.SubParameterDAO
	evidenceDAO     *dao.EvidenceDAO
	permissionDAO   *dao.PermissionDAO
	activityDAO     *dao.ActivityLogDAO
	files           *storage.FileStore
	audit           *AuditRecorder
	db              *database.DB
	logger          *logrus.Logger
}

// NewParameterService creates a new ParameterService
func NewParameterService(
	parameterDAO *dao.ParameterDAO,
	areaDAO *dao.AreaLevelDAO,
	subParameterDAO *dao.SubParameterDAO,
	evidenceDAO *dao.EvidenceDAO,
	permissionDAO *dao.PermissionDAO,
	activityDAO *dao.ActivityLogDAO,
	files *storage.FileStore,
	audit *AuditRecorder,
	db *database.DB,
	logger *logrus.Logger,
) *ParameterService {
	return &ParameterService{
		parameterDAO:    parameterDAO,
		areaDAO:         areaDAO,
		subParameterDAO: subParameterDAO,
		evidenceDAO:     evidenceDAO,
		permissionDAO:   permissionDAO,
		activityDAO:     activityDAO,
		files:           files,
		audit:           audit,
		db:              db,
		logger:          logger,
	}
}

// CreateParameter creates a new parameter under an area level
func (s *ParameterService) CreateParameter(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, areaLevelID int64, req *models.ParameterCreateRequest) (*models.Parameter, error) {
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

	if _, err := s.areaDAO.GetByID(ctx, areaLevelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("area level", areaLevelID)
		}
		return nil, apperror.Internal("failed to get area level", err)
	}

	parameter := &models.Parameter{
		AreaLevelID: areaLevelID,
		Name:        req.Name,
		Description: req.Description,
		Weight:      req.Weight,
		Status:      status,
	}

	id, err := s.parameterDAO.Create(ctx, parameter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create parameter")
		return nil, apperror.Internal("failed to create parameter", err)
	}

	s.audit.Record(ctx, actor, meta, models.ActivityCreate,
		fmt.Sprintf("Created parameter '%s' under area level %d", req.Name, areaLevelID))

	return s.parameterDAO.GetByID(ctx, id)
}

// GetParameter retrieves a parameter by ID
func (s *ParameterService) GetParameter(ctx context.Context, id int64) (*models.Parameter, error) {
	parameter, err := s.parameterDAO.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("parameter", id)
		}
		return nil, apperror.Internal("failed to get parameter", err)
	}
	return parameter, nil
}

// ListParameters retrieves all parameters under an area level
func (s *ParameterService) ListParameters(ctx context.Context, areaLevelID int64) ([]models.Parameter, error) {
	if _, err := s.areaDAO.GetByID(ctx, areaLevelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("area level", areaLevelID)
		}
		return nil, apperror.Internal("failed to get area level", err)
	}

	parameters, err := s.parameterDAO.ListByArea(ctx, areaLevelID)
	if err != nil {
		return nil, apperror.Internal("failed to list parameters", err)
	}
	return parameters, nil
}

// UpdateParameter replaces the full row of an existing parameter
func (s *ParameterService) UpdateParameter(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64, req *models.ParameterUpdateRequest) (*models.Parameter, error) {
	if !models.IsValidEntityStatus(req.Status) {
		return nil, apperror.Validation("invalid status: %s", req.Status)
	}
	if req.Weight < 0 {
		return nil, apperror.Validation("weight must be non-negative")
	}

	parameter, err := s.GetParameter(ctx, id)
	if err != nil {
		return nil, err
	}

	parameter.Name = req.Name
	parameter.Description = req.Description
	parameter.Weight = req.Weight
	parameter.Status = req.Status

	if err := s.parameterDAO.Update(ctx, parameter); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("parameter", id)
		}
		return nil, apperror.Internal("failed to update parameter", err)
	}

	s.audit.Record(ctx, actor, meta, models.ActivityUpdate,
		fmt.Sprintf("Updated parameter '%s'", req.Name))

	return s.parameterDAO.GetByID(ctx, id)
}

// DeleteParameter deletes a parameter, its sub-parameters, attached evidence
// and permission rows in one transaction. Evidence files are removed after
// commit, best-effort.
func (s *ParameterService) DeleteParameter(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64) error {
	parameter, err := s.GetParameter(ctx, id)
	if err != nil {
		return err
	}

	var evidencePaths []string

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		parameterIDs := []int64{id}

		subParameterIDs, err := s.subParameterDAO.IDsByParametersWithTx(ctx, tx, parameterIDs)
		if err != nil {
			return err
		}

		evidencePaths, err = s.evidenceDAO.FilePathsByTargetsWithTx(ctx, tx, parameterIDs, subParameterIDs)
		if err != nil {
			return err
		}

		if err := s.evidenceDAO.DeleteByTargetsWithTx(ctx, tx, parameterIDs, subParameterIDs); err != nil {
			return err
		}
		if err := s.subParameterDAO.DeleteByIDsWithTx(ctx, tx, subParameterIDs); err != nil {
			return err
		}
		if err := s.permissionDAO.DeleteByParametersWithTx(ctx, tx, parameterIDs); err != nil {
			return err
		}
		if err := s.parameterDAO.DeleteWithTx(ctx, tx, id); err != nil {
			return err
		}

		return s.activityDAO.CreateWithTx(ctx, tx, &models.ActivityLog{
			UserID:       actor.UserID,
			ActivityType: models.ActivityCascadeDelete,
			Description:  fmt.Sprintf("Deleted parameter '%s' and all contents", parameter.Name),
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
		})
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("parameter", id)
		}
		s.logger.WithError(err).WithField("parameter_id", id).Error("Parameter cascade delete failed")
		return apperror.DeletionFailed("failed to delete parameter", err)
	}

	s.files.RemoveAll(evidencePaths)

	return nil
}
