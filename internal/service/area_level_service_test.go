package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaccred/accreditation-mgt-api/internal/apperror"
	"github.com/openaccred/accreditation-mgt-api/internal/dao"
	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/storage"
)

func newAreaLevelService(db *database.DB, files *storage.FileStore) *AreaLevelService {
	logger := testLogger()
	activityDAO := dao.NewActivityLogDAO(db)

	return NewAreaLevelService(
		dao.NewAreaLevelDAO(db),
		dao.NewProgramDAO(db),
		dao.NewParameterDAO(db),
		dao.NewSubParameterDAO(db),
		dao.NewEvidenceDAO(db),
		dao.NewPermissionDAO(db),
		activityDAO,
		files,
		NewAuditRecorder(activityDAO, logger),
		db,
		logger,
	)
}

func expectAreaRow(mock sqlmock.Sqlmock, id, programID int64) {
	mock.ExpectQuery(`FROM area_levels WHERE id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "program_id", "name", "description", "status",
		}).AddRow(id, programID, "Faculty", "", models.StatusActive))
}

// TestDeleteAreaLevelCascades tests that deleting an area removes its
// parameters, sub-parameters, evidence and permission rows in one
// transaction
func TestDeleteAreaLevelCascades(t *testing.T) {
	db, mock := newMockDB(t)
	files := newMemFileStore(t)
	svc := newAreaLevelService(db, files)

	evidenceFile, _, err := files.Save(strings.NewReader("report"), ".pdf")
	require.NoError(t, err)

	expectAreaRow(mock, 10, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM parameters WHERE area_level_id IN`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))
	mock.ExpectQuery(`SELECT id FROM sub_parameters WHERE parameter_id IN`).
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(40))
	mock.ExpectQuery(`SELECT file_path FROM evidence WHERE parameter_id IN`).
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).AddRow(evidenceFile))
	mock.ExpectQuery(`SELECT file_path FROM evidence WHERE sub_parameter_id IN`).
		WithArgs(int64(40)).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}))
	mock.ExpectExec(`DELETE FROM evidence WHERE parameter_id IN`).
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM evidence WHERE sub_parameter_id IN`).
		WithArgs(int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM sub_parameters WHERE id IN`).
		WithArgs(int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM parameter_user_permissions WHERE parameter_id IN`).
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM parameters WHERE id IN`).
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM area_user_permissions WHERE area_id IN`).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM area_levels WHERE id`).
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO activity_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = svc.DeleteAreaLevel(context.Background(), testActor(), testMeta(), 10)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())

	exists, err := files.Exists(evidenceFile)
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestCreateAreaLevelUnknownProgram tests the parent existence check
func TestCreateAreaLevelUnknownProgram(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newAreaLevelService(db, newMemFileStore(t))

	mock.ExpectQuery(`FROM programs WHERE id`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.CreateAreaLevel(context.Background(), testActor(), testMeta(), 99,
		&models.AreaLevelCreateRequest{Name: "Faculty"})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
