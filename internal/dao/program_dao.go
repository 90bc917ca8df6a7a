package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// ProgramDAO handles database operations for programs
type ProgramDAO struct {
	db *database.DB
}

// NewProgramDAO creates a new ProgramDAO instance
func NewProgramDAO(db *database.DB) *ProgramDAO {
	return &ProgramDAO{db: db}
}

// Create inserts a new program and returns its generated ID
func (dao *ProgramDAO) Create(ctx context.Context, program *models.Program) (int64, error) {
	query := `
		INSERT INTO programs (name, code, description, status)
		VALUES (?, ?, ?, ?)
	`

	result, err := dao.db.ExecContext(ctx, query,
		program.Name,
		program.Code,
		program.Description,
		program.Status,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create program: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted program ID: %w", err)
	}

	return id, nil
}

// GetByID retrieves a program by ID
func (dao *ProgramDAO) GetByID(ctx context.Context, id int64) (*models.Program, error) {
	query := `
		SELECT id, name, code, description, status, created_at, updated_at
		FROM programs
		WHERE id = ?
	`

	var program models.Program
	err := dao.db.GetContext(ctx, &program, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get program: %w", err)
	}

	return &program, nil
}

// List retrieves programs ordered by name with pagination
func (dao *ProgramDAO) List(ctx context.Context, limit, offset int) ([]models.Program, error) {
	query := `
		SELECT id, name, code, description, status, created_at, updated_at
		FROM programs
		ORDER BY name
		LIMIT ? OFFSET ?
	`

	var programs []models.Program
	err := dao.db.SelectContext(ctx, &programs, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	return programs, nil
}

// Count returns the total number of programs
func (dao *ProgramDAO) Count(ctx context.Context) (int, error) {
	var count int
	err := dao.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM programs`)
	if err != nil {
		return 0, fmt.Errorf("failed to count programs: %w", err)
	}
	return count, nil
}

// ExistsByCode checks whether a program with the given code exists,
// excluding the given ID (pass 0 on create)
func (dao *ProgramDAO) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	var count int
	err := dao.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM programs WHERE code = ? AND id <> ?`, code, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check program code: %w", err)
	}
	return count > 0, nil
}

// Update replaces the full row of an existing program
func (dao *ProgramDAO) Update(ctx context.Context, program *models.Program) error {
	query := `
		UPDATE programs
		SET name = ?, code = ?, description = ?, status = ?
		WHERE id = ?
	`

	result, err := dao.db.ExecContext(ctx, query,
		program.Name,
		program.Code,
		program.Description,
		program.Status,
		program.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update program: %w", err)
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

// DeleteWithTx deletes the program row itself. Descendant rows must already
// be gone; foreign keys reject the delete otherwise.
func (dao *ProgramDAO) DeleteWithTx(ctx context.Context, tx *database.Transaction, id int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete program: %w", err)
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
