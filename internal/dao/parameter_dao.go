package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// ParameterDAO handles database operations for parameters
type ParameterDAO struct {
	db *database.DB
}

// NewParameterDAO creates a new ParameterDAO instance
func NewParameterDAO(db *database.DB) *ParameterDAO {
	return &ParameterDAO{db: db}
}

// Create inserts a new parameter and returns its generated ID
func (dao *ParameterDAO) Create(ctx context.Context, parameter *models.Parameter) (int64, error) {
	query := `
		INSERT INTO parameters (area_level_id, name, description, weight, status)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := dao.db.ExecContext(ctx, query,
		parameter.AreaLevelID,
		parameter.Name,
		parameter.Description,
		parameter.Weight,
		parameter.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create parameter: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted parameter ID: %w", err)
	}

	return id, nil
}

// GetByID retrieves a parameter by ID
func (dao *ParameterDAO) GetByID(ctx context.Context, id int64) (*models.Parameter, error) {
	query := `
		SELECT id, area_level_id, name, description, weight, status, created_at, updated_at
		FROM parameters
		WHERE id = ?
	`

	var parameter models.Parameter
	err := dao.db.GetContext(ctx, &parameter, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get parameter: %w", err)
	}

	return &parameter, nil
}

// ListByArea retrieves all parameters under an area level
func (dao *ParameterDAO) ListByArea(ctx context.Context, areaLevelID int64) ([]models.Parameter, error) {
	query := `
		SELECT id, area_level_id, name, description, weight, status, created_at, updated_at
		FROM parameters
		WHERE area_level_id = ?
		ORDER BY name
	`

	var parameters []models.Parameter
	err := dao.db.SelectContext(ctx, &parameters, query, areaLevelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}

	return parameters, nil
}

// Update replaces the full row of an existing parameter
func (dao *ParameterDAO) Update(ctx context.Context, parameter *models.Parameter) error {
	query := `
		UPDATE parameters
		SET name = ?, description = ?, weight = ?, status = ?
		WHERE id = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		parameter.Name,
		parameter.Description,
		parameter.Weight,
		parameter.Status,
		parameter.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update parameter: %w", err)
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

// IDsByAreasWithTx resolves the IDs of all parameters under the given area
// levels inside a transaction
func (dao *ParameterDAO) IDsByAreasWithTx(ctx context.Context, tx *database.Transaction, areaIDs []int64) ([]int64, error) {
	if len(areaIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT id FROM parameters WHERE area_level_id IN (?)`, areaIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build parameter ID query: %w", err)
	}

	var ids []int64
	if err := tx.SelectContext(ctx, &ids, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to resolve parameter IDs: %w", err)
	}

	return ids, nil
}

// DeleteByIDsWithTx deletes the given parameter rows
func (dao *ParameterDAO) DeleteByIDsWithTx(ctx context.Context, tx *database.Transaction, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM parameters WHERE id IN (?)`, ids)
	if err != nil {
		return fmt.Errorf("failed to build parameter delete query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete parameters: %w", err)
	}

	return nil
}

// DeleteWithTx deletes a single parameter row
func (dao *ParameterDAO) DeleteWithTx(ctx context.Context, tx *database.Transaction, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM parameters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete parameter: %w", err)
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
