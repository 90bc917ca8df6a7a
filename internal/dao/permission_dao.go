package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// PermissionDAO handles database operations for parameter-level and
// area-level permission rows
type PermissionDAO struct {
	db *database.DB
}

// NewPermissionDAO creates a new PermissionDAO instance
func NewPermissionDAO(db *database.DB) *PermissionDAO {
	return &PermissionDAO{db: db}
}

// GetParameterGrant retrieves the permission row for (user, parameter).
// Returns sql.ErrNoRows when no entity-level row exists.
func (dao *PermissionDAO) GetParameterGrant(ctx context.Context, userID, parameterID int64) (*models.ParameterUserPermission, error) {
	query := `
		SELECT user_id, parameter_id, can_view, can_add, can_edit,
		       can_delete, can_download, can_approve
		FROM parameter_user_permissions
		WHERE user_id = ? AND parameter_id = ?
	`

	var grant models.ParameterUserPermission
	err := dao.db.GetContext(ctx, &grant, query, userID, parameterID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get parameter grant: %w", err)
	}

	return &grant, nil
}

// GetAreaGrant retrieves the permission row for (user, area). Returns
// sql.ErrNoRows when no fallback row exists.
func (dao *PermissionDAO) GetAreaGrant(ctx context.Context, userID, areaID int64) (*models.AreaUserPermission, error) {
	query := `
		SELECT user_id, area_id, can_view, can_add, can_edit,
		       can_delete, can_download, can_approve
		FROM area_user_permissions
		WHERE user_id = ? AND area_id = ?
	`

	var grant models.AreaUserPermission
	err := dao.db.GetContext(ctx, &grant, query, userID, areaID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get area grant: %w", err)
	}

	return &grant, nil
}

// ListParameterGrants retrieves all permission rows for a parameter
func (dao *PermissionDAO) ListParameterGrants(ctx context.Context, parameterID int64) ([]models.ParameterUserPermission, error) {
	query := `
		SELECT user_id, parameter_id, can_view, can_add, can_edit,
		       can_delete, can_download, can_approve
		FROM parameter_user_permissions
		WHERE parameter_id = ?
		ORDER BY user_id
	`

	var grants []models.ParameterUserPermission
	err := dao.db.SelectContext(ctx, &grants, query, parameterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameter grants: %w", err)
	}

	return grants, nil
}

// ListAreaGrants retrieves all permission rows for an area level
func (dao *PermissionDAO) ListAreaGrants(ctx context.Context, areaID int64) ([]models.AreaUserPermission, error) {
	query := `
		SELECT user_id, area_id, can_view, can_add, can_edit,
		       can_delete, can_download, can_approve
		FROM area_user_permissions
		WHERE area_id = ?
		ORDER BY user_id
	`

	var grants []models.AreaUserPermission
	err := dao.db.SelectContext(ctx, &grants, query, areaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list area grants: %w", err)
	}

	return grants, nil
}

// ReplaceParameterGrantsWithTx deletes every permission row of the parameter
// and inserts one fresh row per grant. Full replace, never a merge.
func (dao *PermissionDAO) ReplaceParameterGrantsWithTx(ctx context.Context, tx *database.Transaction, parameterID int64, grants []models.ParameterUserPermission) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM parameter_user_permissions WHERE parameter_id = ?`, parameterID); err != nil {
		return fmt.Errorf("failed to clear parameter grants: %w", err)
	}

	query := `
		INSERT INTO parameter_user_permissions (
			user_id, parameter_id, can_view, can_add, can_edit,
			can_delete, can_download, can_approve
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, grant := range grants {
		if _, err := tx.ExecContext(ctx, query,
			grant.UserID,
			parameterID,
			grant.CanView,
			grant.CanAdd,
			grant.CanEdit,
			grant.CanDelete,
			grant.CanDownload,
			grant.CanApprove,
		); err != nil {
			return fmt.Errorf("failed to insert parameter grant for user %d: %w", grant.UserID, err)
		}
	}

	return nil
}

// ReplaceAreaGrantsWithTx deletes every permission row of the area level and
// inserts one fresh row per grant
func (dao *PermissionDAO) ReplaceAreaGrantsWithTx(ctx context.Context, tx *database.Transaction, areaID int64, grants []models.AreaUserPermission) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM area_user_permissions WHERE area_id = ?`, areaID); err != nil {
		return fmt.Errorf("failed to clear area grants: %w", err)
	}

	query := `
		INSERT INTO area_user_permissions (
			user_id, area_id, can_view, can_add, can_edit,
			can_delete, can_download, can_approve
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, grant := range grants {
		if _, err := tx.ExecContext(ctx, query,
			grant.UserID,
			areaID,
			grant.CanView,
			grant.CanAdd,
			grant.CanEdit,
			grant.CanDelete,
			grant.CanDownload,
			grant.CanApprove,
		); err != nil {
			return fmt.Errorf("failed to insert area grant for user %d: %w", grant.UserID, err)
		}
	}

	return nil
}

// DeleteByParametersWithTx deletes all permission rows scoped to the given
// parameters
func (dao *PermissionDAO) DeleteByParametersWithTx(ctx context.Context, tx *database.Transaction, parameterIDs []int64) error {
	if len(parameterIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM parameter_user_permissions WHERE parameter_id IN (?)`, parameterIDs)
	if err != nil {
		return fmt.Errorf("failed to build permission delete query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete parameter permissions: %w", err)
	}

	return nil
}

// DeleteByAreasWithTx deletes all permission rows scoped to the given area
// levels
func (dao *PermissionDAO) DeleteByAreasWithTx(ctx context.Context, tx *database.Transaction, areaIDs []int64) error {
	if len(areaIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM area_user_permissions WHERE area_id IN (?)`, areaIDs)
	if err != nil {
		return fmt.Errorf("failed to build permission delete query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete area permissions: %w", err)
	}

	return nil
}
