package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// AreaLevelDAO handles database operations for area levels
type AreaLevelDAO struct {
	db *database.DB
}

// NewAreaLevelDAO creates a new AreaLevelDAO instance
func NewAreaLevelDAO(db *database.DB) *AreaLevelDAO {
	return &AreaLevelDAO{db: db}
}

// Create inserts a new area level and returns its generated ID
func (dao *AreaLevelDAO) Create(ctx context.Context, area *models.AreaLevel) (int64, error) {
	query := `
		INSERT INTO area_levels (program_id, name, description, status)
		VALUES (?, ?, ?, ?)
	`

	result, err := dao.db.ExecContext(ctx, query,
		area.ProgramID,
		area.Name,
		area.Description,
		area.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create area level: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted area level ID: %w", err)
	}

	return id, nil
}

// GetByID retrieves an area level by ID
func (dao *AreaLevelDAO) GetByID(ctx context.Context, id int64) (*models.AreaLevel, error) {
	query := `
		SELECT id, program_id, name, description, status
		FROM area_levels
		WHERE id = ?
	`

	var area models.AreaLevel
	err := dao.db.GetContext(ctx, &area, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get area level: %w", err)
	}

	return &area, nil
}

// ListByProgram retrieves all area levels under a program
func (dao *AreaLevelDAO) ListByProgram(ctx context.Context, programID int64) ([]models.AreaLevel, error) {
	query := `
		SELECT id, program_id, name, description, status
		FROM area_levels
		WHERE program_id = ?
		ORDER BY name
	`

	var areas []models.AreaLevel
	err := dao.db.SelectContext(ctx, &areas, query, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list area levels: %w", err)
	}

	return areas, nil
}

// Update replaces the full row of an existing area level
func (dao *AreaLevelDAO) Update(ctx context.Context, area *models.AreaLevel) error {
	query := `
		UPDATE area_levels
		SET name = ?, description = ?, status = ?
		WHERE id = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		area.Name,
		area.Description,
		area.Status,
		area.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update area level: %w", err)
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

// IDsByProgramWithTx resolves the IDs of all area levels under a program
// inside a transaction
func (dao *AreaLevelDAO) IDsByProgramWithTx(ctx context.Context, tx *database.Transaction, programID int64) ([]int64, error) {
	var ids []int64
	err := tx.SelectContext(ctx, &ids,
		`SELECT id FROM area_levels WHERE program_id = ?`, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve area level IDs: %w", err)
	}
	return ids, nil
}

// DeleteByProgramWithTx deletes all area levels under a program
func (dao *AreaLevelDAO) DeleteByProgramWithTx(ctx context.Context, tx *database.Transaction, programID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM area_levels WHERE program_id = ?`, programID)
	if err != nil {
		return fmt.Errorf("failed to delete area levels: %w", err)
	}
	return nil
}

// DeleteWithTx deletes a single area level row
func (dao *AreaLevelDAO) DeleteWithTx(ctx context.Context, tx *database.Transaction, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM area_levels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete area level: %w", err)
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
