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

// AreaLevelService handles business logic for area levels
type AreaLevelService struct {
	areaDAO         *dao.AreaLevelDAO
	programDAO      *dao.ProgramDAO
	parameterDAO    *dao.ParameterDAO
	subParameterDAO *dao.SubParameterDAO
	evidenceDAO     *dao.EvidenceDAO
	permissionDAO   *dao.PermissionDAO
	activityDAO     *dao.ActivityLogDAO
	files           *storage.FileStore
	audit           *AuditRecorder
	db              *database.DB
	logger          *logrus.Logger
}

// NewAreaLevelService creates a new AreaLevelService
func NewAreaLevelService(
	areaDAO *dao.AreaLevelDAO,
	programDAO *dao.ProgramDAO,
	parameterDAO *dao.ParameterDAO,
	subParameterDAO *dao.SubParameterDAO,
	evidenceDAO *dao.EvidenceDAO,
	permissionDAO *dao.PermissionDAO,
	activityDAO *dao.ActivityLogDAO,
	files *storage.FileStore,
	audit *AuditRecorder,
	db *database.DB,
	logger *logrus.Logger,
) *AreaLevelService {
	return &AreaLevelService{
		areaDAO:         areaDAO,
		programDAO:      programDAO,
		parameterDAO:    parameterDAO,
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

// CreateAreaLevel creates a new area level under a program
func (s *AreaLevelService) CreateAreaLevel(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, programID int64, req *models.AreaLevelCreateRequest) (*models.AreaLevel, error) {
	status := req.Status
	if status == "" {
		status = models.StatusActive
	}
	if !models.IsValidEntityStatus(status) {
		return nil, apperror.Validation("invalid status: %s", status)
	}

	if _, err := s.programDAO.GetByID(ctx, programID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("program", programID)
		}
		return nil, apperror.Internal("failed to get program", err)
	}

	area := &models.AreaLevel{
		ProgramID:   programID,
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
	}

	id, err := s.areaDAO.Create(ctx, area)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create area level")
		return nil, apperror.Internal("failed to create area level", err)
	}

	s.audit.Record(ctx, actor, meta, models.ActivityCreate,
		fmt.Sprintf("Created area level '%s' under program %d", req.Name, programID))

	return s.areaDAO.GetByID(ctx, id)
}

// GetAreaLevel retrieves an area level by ID
func (s *AreaLevelService) GetAreaLevel(ctx context.Context, id int64) (*models.AreaLevel, error) {
	area, err := s.areaDAO.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("area level", id)
		}
		return nil, apperror.Internal("failed to get area level", err)
	}
	return area, nil
}

// ListAreaLevels retrieves all area levels under a program
func (s *AreaLevelService) ListAreaLevels(ctx context.Context, programID int64) ([]models.AreaLevel, error) {
	if _, err := s.programDAO.GetByID(ctx, programID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("program", programID)
		}
		return nil, apperror.Internal("failed to get program", err)
	}

	areas, err := s.areaDAO.ListByProgram(ctx, programID)
	if err != nil {
		return nil, apperror.Internal("failed to list area levels", err)
	}
	return areas, nil
}

// UpdateAreaLevel replaces the full row of an existing area level
func (s *AreaLevelService) UpdateAreaLevel(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64, req *models.AreaLevelUpdateRequest) (*models.AreaLevel, error) {
	if !models.IsValidEntityStatus(req.Status) {
		return nil, apperror.Validation("invalid status: %s", req.Status)
	}

	area, err := s.GetAreaLevel(ctx, id)
	if err != nil {
		return nil, err
	}

	area.Name = req.Name
	area.Description = req.Description
	area.Status = req.Status

	if err := s.areaDAO.Update(ctx, area); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("area level", id)
		}
		return nil, apperror.Internal("failed to update area level", err)
	}

	s.audit.Record(ctx, actor, meta, models.ActivityUpdate,
		fmt.Sprintf("Updated area level '%s'", req.Name))

	return s.areaDAO.GetByID(ctx, id)
}

// DeleteAreaLevel deletes an area level and every row beneath it in one
// transaction. Evidence files are removed after commit, best-effort.
func (s *AreaLevelService) DeleteAreaLevel(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64) error {
	area, err := s.GetAreaLevel(ctx, id)
	if err != nil {
		return err
	}

	var evidencePaths []string

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		parameterIDs, err := s.parameterDAO.IDsByAreasWithTx(ctx, tx, []int64{id})
		if err != nil {
			return err
		}

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
		if err := s.parameterDAO.DeleteByIDsWithTx(ctx, tx, parameterIDs); err != nil {
			return err
		}
		if err := s.permissionDAO.DeleteByAreasWithTx(ctx, tx, []int64{id}); err != nil {
			return err
		}
		if err := s.areaDAO.DeleteWithTx(ctx, tx, id); err != nil {
			return err
		}

		return s.activityDAO.CreateWithTx(ctx, tx, &models.ActivityLog{
			UserID:       actor.UserID,
			ActivityType: models.ActivityCascadeDelete,
			Description:  fmt.Sprintf("Deleted area level '%s' and all contents", area.Name),
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
		})
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("area level", id)
		}
		s.logger.WithError(err).WithField("area_id", id).Error("Area level cascade delete failed")
		return apperror.DeletionFailed("failed to delete area level", err)
	}

	s.files.RemoveAll(evidencePaths)

	return nil
}
