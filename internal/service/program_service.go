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

// ProgramService handles business logic for programs, including the full
// cascade delete of a program subtree.
type ProgramService struct {
	programDAO      *dao.ProgramDAO
	areaDAO         *dao.AreaLevelDAO
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

// NewProgramService creates a new ProgramService
func NewProgramService(
	programDAO *dao.ProgramDAO,
	areaDAO *dao.AreaLevelDAO,
	parameterDAO *dao.ParameterDAO,
	subParameterDAO *dao.SubParameterDAO,
	evidenceDAO *dao.EvidenceDAO,
	permissionDAO *dao.PermissionDAO,
	activityDAO *dao.ActivityLogDAO,
	files *storage.FileStore,
	audit *AuditRecorder,
	db *database.DB,
	logger *logrus.Logger,
) *ProgramService {
	return &ProgramService{
		programDAO:      programDAO,
		areaDAO:         areaDAO,
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

// CreateProgram creates a new program
func (s *ProgramService) CreateProgram(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, req *models.ProgramCreateRequest) (*models.Program, error) {
	status := req.Status
	if status == "" {
		status = models.StatusActive
	}
	if !models.IsValidEntityStatus(status) {
		return nil, apperror.Validation("invalid status: %s", status)
	}

	exists, err := s.programDAO.ExistsByCode(ctx, req.Code, 0)
	if err != nil {
		s.logger.WithError(err).Error("Failed to check program code")
		return nil, apperror.Internal("failed to validate program code", err)
	}
	if exists {
		return nil, apperror.Conflict("program code '%s' already exists", req.Code)
	}

	program := &models.Program{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      status,
	}

	id, err := s.programDAO.Create(ctx, program)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create program")
		return nil, apperror.Internal("failed to create program", err)
	}

	s.logger.WithFields(logrus.Fields{
		"program_id": id,
		"code":       req.Code,
	}).Info("Program created")

	s.audit.Record(ctx, actor, meta, models.ActivityCreate,
		fmt.Sprintf("Created program '%s' (%s)", req.Name, req.Code))

	return s.programDAO.GetByID(ctx, id)
}

// GetProgram retrieves a program by ID
func (s *ProgramService) GetProgram(ctx context.Context, id int64) (*models.Program, error) {
	program, err := s.programDAO.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("program", id)
		}
		return nil, apperror.Internal("failed to get program", err)
	}
	return program, nil
}

// ListPrograms retrieves programs with pagination
func (s *ProgramService) ListPrograms(ctx context.Context, limit, offset int) ([]models.Program, int, error) {
	programs, err := s.programDAO.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list programs", err)
	}

	total, err := s.programDAO.Count(ctx)
	if err != nil {
		return nil, 0, apperror.Internal("failed to count programs", err)
	}

	return programs, total, nil
}

// UpdateProgram replaces the full row of an existing program
func (s *ProgramService) UpdateProgram(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64, req *models.ProgramUpdateRequest) (*models.Program, error) {
	if !models.IsValidEntityStatus(req.Status) {
		return nil, apperror.Validation("invalid status: %s", req.Status)
	}

	if _, err := s.GetProgram(ctx, id); err != nil {
		return nil, err
	}

	exists, err := s.programDAO.ExistsByCode(ctx, req.Code, id)
	if err != nil {
		return nil, apperror.Internal("failed to validate program code", err)
	}
	if exists {
		return nil, apperror.Conflict("program code '%s' already exists", req.Code)
	}

	program := &models.Program{
		ID:          id,
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Status:      req.Status,
	}

	if err := s.programDAO.Update(ctx, program); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("program", id)
		}
		return nil, apperror.Internal("failed to update program", err)
	}

	s.audit.Record(ctx, actor, meta, models.ActivityUpdate,
		fmt.Sprintf("Updated program '%s' (%s)", req.Name, req.Code))

	return s.programDAO.GetByID(ctx, id)
}

// DeleteProgram deletes a program and every row beneath it: area levels,
// parameters, sub-parameters, evidence and permission rows, in one
// transaction with the audit entry. Evidence files are removed from storage
// only after the transaction has committed, so a rollback never loses files.
func (s *ProgramService) DeleteProgram(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, id int64) error {
	program, err := s.GetProgram(ctx, id)
	if err != nil {
		return err
	}

	var evidencePaths []string

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		areaIDs, err := s.areaDAO.IDsByProgramWithTx(ctx, tx, id)
		if err != nil {
			return err
		}

		parameterIDs, err := s.parameterDAO.IDsByAreasWithTx(ctx, tx, areaIDs)
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

		// Children before parents, permission rows before their scope rows.
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
		if err := s.permissionDAO.DeleteByAreasWithTx(ctx, tx, areaIDs); err != nil {
			return err
		}
		if err := s.areaDAO.DeleteByProgramWithTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.programDAO.DeleteWithTx(ctx, tx, id); err != nil {
			return err
		}

		return s.activityDAO.CreateWithTx(ctx, tx, &models.ActivityLog{
			UserID:       actor.UserID,
			ActivityType: models.ActivityCascadeDelete,
			Description:  fmt.Sprintf("Deleted program '%s' (%s) and all contents", program.Name, program.Code),
			IPAddress:    meta.IPAddress,
			UserAgent:    meta.UserAgent,
		})
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("program", id)
		}
		s.logger.WithError(err).WithField("program_id", id).Error("Program cascade delete failed")
		return apperror.DeletionFailed("failed to delete program", err)
	}

	s.logger.WithFields(logrus.Fields{
		"program_id":     id,
		"evidence_files": len(evidencePaths),
	}).Info("Program deleted")

	s.files.RemoveAll(evidencePaths)

	return nil
}
