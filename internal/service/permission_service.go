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
)

// PermissionService resolves row-level permissions and manages permission
// assignments. Resolution is a pure ordered lookup with no side effects:
// global capability, then parameter-level row, then area-level fallback,
// then deny.
type PermissionService struct {
	permissionDAO   *dao.PermissionDAO
	parameterDAO    *dao.ParameterDAO
	subParameterDAO *dao.SubParameterDAO
	areaDAO         *dao.AreaLevelDAO
	audit           *AuditRecorder
	db              *database.DB
	logger          *logrus.Logger
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(
	permissionDAO *dao.PermissionDAO,
	parameterDAO *dao.ParameterDAO,
	subParameterDAO *dao.SubParameterDAO,
	areaDAO *dao.AreaLevelDAO,
	audit *AuditRecorder,
	db *database.DB,
	logger *logrus.Logger,
) *PermissionService {
	return &PermissionService{
		permissionDAO:   permissionDAO,
		parameterDAO:    parameterDAO,
		subParameterDAO: subParameterDAO,
		areaDAO:         areaDAO,
		audit:           audit,
		db:              db,
		logger:          logger,
	}
}

// CanPerform answers whether the actor may perform the given action on a
// parameter or sub-parameter. A parameter-level grant always overrides the
// area-level fallback, including an explicit deny. Missing rows at both
// levels mean deny.
func (s *PermissionService) CanPerform(ctx context.Context, actor models.ActorContext, entityID int64, kind models.EntityKind, action models.Action) (bool, error) {
	if actor.HasCapability(models.CapabilityAdmin) || actor.HasCapability(models.CapabilityViewParameters) {
		return true, nil
	}

	parameterID, err := s.resolveParameterID(ctx, entityID, kind)
	if err != nil {
		return false, err
	}

	grant, err := s.permissionDAO.GetParameterGrant(ctx, actor.UserID, parameterID)
	if err == nil {
		return grant.Allows(action), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, apperror.Internal("failed to resolve parameter grant", err)
	}

	parameter, err := s.parameterDAO.GetByID(ctx, parameterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, apperror.NotFound("parameter", parameterID)
		}
		return false, apperror.Internal("failed to get parameter", err)
	}

	areaGrant, err := s.permissionDAO.GetAreaGrant(ctx, actor.UserID, parameter.AreaLevelID)
	if err == nil {
		return areaGrant.Allows(action), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, apperror.Internal("failed to resolve area grant", err)
	}

	return false, nil
}

// resolveParameterID maps the check target to its owning parameter.
func (s *PermissionService) resolveParameterID(ctx context.Context, entityID int64, kind models.EntityKind) (int64, error) {
	switch kind {
	case models.KindParameter:
		return entityID, nil
	case models.KindSubParameter:
		subParameter, err := s.subParameterDAO.GetByID(ctx, entityID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, apperror.NotFound("sub-parameter", entityID)
			}
			return 0, apperror.Internal("failed to get sub-parameter", err)
		}
		return subParameter.ParameterID, nil
	}
	return 0, apperror.Validation("unknown entity kind: %s", kind)
}

// SetParameterPermissions replaces every permission row of a parameter with
// the submitted grants in one transaction. Users absent from the submission
// lose their parameter-level row and fall back to area-level grants.
func (s *PermissionService) SetParameterPermissions(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, parameterID int64, grants []models.PermissionGrant) error {
	if _, err := s.parameterDAO.GetByID(ctx, parameterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("parameter", parameterID)
		}
		return apperror.Internal("failed to get parameter", err)
	}

	rows, err := buildParameterGrantRows(parameterID, grants)
	if err != nil {
		return err
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		return s.permissionDAO.ReplaceParameterGrantsWithTx(ctx, tx, parameterID, rows)
	})
	if err != nil {
		s.logger.WithError(err).WithField("parameter_id", parameterID).Error("Failed to replace parameter permissions")
		return apperror.Internal("failed to set parameter permissions", err)
	}

	s.logger.WithFields(logrus.Fields{
		"parameter_id": parameterID,
		"grant_count":  len(rows),
	}).Info("Parameter permissions replaced")

	s.audit.Record(ctx, actor, meta, models.ActivityPermissionGrant,
		fmt.Sprintf("Replaced permissions of parameter %d (%d grants)", parameterID, len(rows)))

	return nil
}

// SetAreaPermissions replaces every permission row of an area level with the
// submitted grants in one transaction.
func (s *PermissionService) SetAreaPermissions(ctx context.Context, actor models.ActorContext, meta models.RequestMeta, areaID int64, grants []models.PermissionGrant) error {
	if _, err := s.areaDAO.GetByID(ctx, areaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperror.NotFound("area level", areaID)
		}
		return apperror.Internal("failed to get area level", err)
	}

	rows, err := buildAreaGrantRows(areaID, grants)
	if err != nil {
		return err
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		return s.permissionDAO.ReplaceAreaGrantsWithTx(ctx, tx, areaID, rows)
	})
	if err != nil {
		s.logger.WithError(err).WithField("area_id", areaID).Error("Failed to replace area permissions")
		return apperror.Internal("failed to set area permissions", err)
	}

	s.audit.Record(ctx, actor, meta, models.ActivityPermissionGrant,
		fmt.Sprintf("Replaced permissions of area level %d (%d grants)", areaID, len(rows)))

	return nil
}

// ListParameterPermissions retrieves all permission rows of a parameter
func (s *PermissionService) ListParameterPermissions(ctx context.Context, parameterID int64) ([]models.ParameterUserPermission, error) {
	if _, err := s.parameterDAO.GetByID(ctx, parameterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("parameter", parameterID)
		}
		return nil, apperror.Internal("failed to get parameter", err)
	}

	grants, err := s.permissionDAO.ListParameterGrants(ctx, parameterID)
	if err != nil {
		return nil, apperror.Internal("failed to list parameter permissions", err)
	}
	return grants, nil
}

// ListAreaPermissions retrieves all permission rows of an area level
func (s *PermissionService) ListAreaPermissions(ctx context.Context, areaID int64) ([]models.AreaUserPermission, error) {
	if _, err := s.areaDAO.GetByID(ctx, areaID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("area level", areaID)
		}
		return nil, apperror.Internal("failed to get area level", err)
	}

	grants, err := s.permissionDAO.ListAreaGrants(ctx, areaID)
	if err != nil {
		return nil, apperror.Internal("failed to list area permissions", err)
	}
	return grants, nil
}

func buildParameterGrantRows(parameterID int64, grants []models.PermissionGrant) ([]models.ParameterUserPermission, error) {
	rows := make([]models.ParameterUserPermission, 0, len(grants))
	seen := make(map[int64]bool, len(grants))

	for _, grant := range grants {
		if grant.UserID <= 0 {
			return nil, apperror.Validation("invalid user ID: %d", grant.UserID)
		}
		if seen[grant.UserID] {
			return nil, apperror.Validation("duplicate grant for user %d", grant.UserID)
		}
		seen[grant.UserID] = true

		rows = append(rows, models.ParameterUserPermission{
			UserID:        grant.UserID,
			ParameterID:   parameterID,
			PermissionSet: grant.Set(),
		})
	}

	return rows, nil
}

func buildAreaGrantRows(areaID int64, grants []models.PermissionGrant) ([]models.AreaUserPermission, error) {
	rows := make([]models.AreaUserPermission, 0, len(grants))
	seen := make(map[int64]bool, len(grants))

	for _, grant := range grants {
		if grant.UserID <= 0 {
			return nil, apperror.Validation("invalid user ID: %d", grant.UserID)
		}
		if seen[grant.UserID] {
			return nil, apperror.Validation("duplicate grant for user %d", grant.UserID)
		}
		seen[grant.UserID] = true

		rows = append(rows, models.AreaUserPermission{
			UserID:        grant.UserID,
			AreaID:        areaID,
			PermissionSet: grant.Set(),
		})
	}

	return rows, nil
}
