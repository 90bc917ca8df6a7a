package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
)

// EvidenceDAO handles database operations for evidence files
type EvidenceDAO struct {
	db *database.DB
}

// NewEvidenceDAO creates a new EvidenceDAO instance
func NewEvidenceDAO(db *database.DB) *EvidenceDAO {
	return &EvidenceDAO{db: db}
}

// Create inserts a new evidence row and returns its generated ID
func (dao *EvidenceDAO) Create(ctx context.Context, evidence *models.Evidence) (int64, error) {
	query := `
		INSERT INTO evidence (
			parameter_id, sub_parameter_id, file_name, file_path,
			file_type, file_size, status, uploaded_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := dao.db.ExecContext(ctx, query,
		evidence.ParameterID,
		evidence.SubParameterID,
		evidence.FileName,
		evidence.FilePath,
		evidence.FileType,
		evidence.FileSize,
		evidence.Status,
		evidence.UploadedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create evidence: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted evidence ID: %w", err)
	}

	return id, nil
}

// GetByID retrieves an evidence row by ID
func (dao *EvidenceDAO) GetByID(ctx context.Context, id int64) (*models.Evidence, error) {
	query := `
		SELECT id, parameter_id, sub_parameter_id, file_name, file_path,
		       file_type, file_size, status, uploaded_by, created_at
		FROM evidence
		WHERE id = ?
	`

	var evidence models.Evidence
	err := dao.db.GetContext(ctx, &evidence, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}

	return &evidence, nil
}

// ListByParameter retrieves all evidence attached directly to a parameter
func (dao *EvidenceDAO) ListByParameter(ctx context.Context, parameterID int64) ([]models.Evidence, error) {
	query := `
		SELECT id, parameter_id, sub_parameter_id, file_name, file_path,
		       file_type, file_size, status, uploaded_by, created_at
		FROM evidence
		WHERE parameter_id = ?
		ORDER BY created_at DESC
	`

	var rows []models.Evidence
	err := dao.db.SelectContext(ctx, &rows, query, parameterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence by parameter: %w", err)
	}

	return rows, nil
}

// ListBySubParameter retrieves all evidence attached to a sub-parameter
func (dao *EvidenceDAO) ListBySubParameter(ctx context.Context, subParameterID int64) ([]models.Evidence, error) {
	query := `
		SELECT id, parameter_id, sub_parameter_id, file_name, file_path,
		       file_type, file_size, status, uploaded_by, created_at
		FROM evidence
		WHERE sub_parameter_id = ?
		ORDER BY created_at DESC
	`

	var rows []models.Evidence
	err := dao.db.SelectContext(ctx, &rows, query, subParameterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list evidence by sub-parameter: %w", err)
	}

	return rows, nil
}

// UpdateStatus sets the review status of an evidence row
func (dao *EvidenceDAO) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := dao.db.ExecContext(ctx,
		`UPDATE evidence SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update evidence status: %w", err)
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

// Delete deletes a single evidence row
func (dao *EvidenceDAO) Delete(ctx context.Context, id int64) error {
	result, err := dao.db.ExecContext(ctx, `DELETE FROM evidence WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete evidence: %w", err)
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

// FilePathsByTargetsWithTx resolves the stored file paths of all evidence
// attached to the given parameters or sub-parameters inside a transaction.
// Either slice may be empty.
func (dao *EvidenceDAO) FilePathsByTargetsWithTx(ctx context.Context, tx *database.Transaction, parameterIDs, subParameterIDs []int64) ([]string, error) {
	var paths []string

	if len(parameterIDs) > 0 {
		query, args, err := sqlx.In(`SELECT file_path FROM evidence WHERE parameter_id IN (?)`, parameterIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to build evidence path query: %w", err)
		}

		var rows []string
		if err := tx.SelectContext(ctx, &rows, tx.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to resolve evidence paths: %w", err)
		}
		paths = append(paths, rows...)
	}

	if len(subParameterIDs) > 0 {
		query, args, err := sqlx.In(`SELECT file_path FROM evidence WHERE sub_parameter_id IN (?)`, subParameterIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to build evidence path query: %w", err)
		}

		var rows []string
		if err := tx.SelectContext(ctx, &rows, tx.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to resolve evidence paths: %w", err)
		}
		paths = append(paths, rows...)
	}

	return paths, nil
}

// DeleteByTargetsWithTx deletes all evidence rows attached to the given
// parameters or sub-parameters inside a transaction
func (dao *EvidenceDAO) DeleteByTargetsWithTx(ctx context.Context, tx *database.Transaction, parameterIDs, subParameterIDs []int64) error {
	if len(parameterIDs) > 0 {
		query, args, err := sqlx.In(`DELETE FROM evidence WHERE parameter_id IN (?)`, parameterIDs)
		if err != nil {
			return fmt.Errorf("failed to build evidence delete query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to delete evidence: %w", err)
		}
	}

	if len(subParameterIDs) > 0 {
		query, args, err := sqlx.In(`DELETE FROM evidence WHERE sub_parameter_id IN (?)`, subParameterIDs)
		if err != nil {
			return fmt.Errorf("failed to build evidence delete query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to delete evidence: %w", err)
		}
	}

	return nil
}
