package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// SubParameterDAO handles database operations for sub-parameters
type SubParameterDAO struct {
	db *database.DB
}

// NewSubParameterDAO creates a new SubParameterDAO instance
func NewSubParameterDAO(db *database.DB) *SubParameterDAO {
	return &SubParameterDAO{db: db}
}

// Create inserts a new sub-parameter and returns its generated ID
func (dao *SubParameterDAO) Create(ctx context.Context, subParameter *models.SubParameter) (int64, error) {
	query := `
		INSERT INTO sub_parameters (parameter_id, name, description, weight, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := dao.db.ExecContext(ctx, query,
		subParameter.ParameterID,
		subParameter.Name,
		subParameter.Description,
		subParameter.Weight,
		subParameter.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create sub-parameter: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted sub-parameter ID: %w", err)
	}

	return id, nil
}

// GetByID retrieves a sub-parameter by ID
func (dao *SubParameterDAO) GetByID(ctx context.Context, id int64) (*models.SubParameter, error) {
	query := `
		SELECT id, parameter_id, name, description, weight, status
		FROM sub_parameters
		WHERE id = ?
	`

	var subParameter models.SubParameter
	err := dao.db.GetContext(ctx, &subParameter, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get sub-parameter: %w", err)
	}

	return &subParameter, nil
}

// ListByParameter retrieves all sub-parameters under a parameter
func (dao *SubParameterDAO) ListByParameter(ctx context.Context, parameterID int64) ([]models.SubParameter, error) {
	query := `
		SELECT id, parameter_id, name, description, weight, status
		FROM sub_parameters
		WHERE parameter_id = ?
		ORDER BY name
	`

	var subParameters []models.SubParameter
	err := dao.db.SelectContext(ctx, &subParameters, query, parameterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-parameters: %w", err)
	}

	return subParameters, nil
}

// Update replaces the full row of an existing sub-parameter
func (dao *SubParameterDAO) Update(ctx context.Context, subParameter *models.SubParameter) error {
	query := `
		UPDATE sub_parameters
		SET name = ?, description = ?, weight = ?, status = ?
		WHERE id = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		subParameter.Name,
		subParameter.Description,
		subParameter.Weight,
		subParameter.Status,
		subParameter.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sub-parameter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// IDsByParametersWithTx resolves the IDs of all sub-parameters under the
// given parameters inside a transaction
func (dao *SubParameterDAO) IDsByParametersWithTx(ctx context.Context, tx *database.Transaction, parameterIDs []int64) ([]int64, error) {
	if len(parameterIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT id FROM sub_parameters WHERE parameter_id IN (?)`, parameterIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build sub-parameter ID query: %w", err)
	}

	var ids []int64
	if err := tx.SelectContext(ctx, &ids, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to resolve sub-parameter IDs: %w", err)
	}

	return ids, nil
}

// DeleteByIDsWithTx deletes the given sub-parameter rows
func (dao *SubParameterDAO) DeleteByIDsWithTx(ctx context.Context, tx *database.Transaction, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM sub_parameters WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("failed to build sub-parameter delete query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete sub-parameters: %w", err)
	}

	return nil
}

// DeleteWithTx deletes a single sub-parameter row
func (dao *SubParameterDAO) DeleteWithTx(ctx context.Context, tx *database.Transaction, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM sub_parameters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sub-parameter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
