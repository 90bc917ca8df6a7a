package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaccred/accreditation-mgt-api/internal/apperror"
	"github.com/openaccred/accreditation-mgt-api/internal/dao"
	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/storage"
)

func newProgramService(db *database.DB, files *storage.FileStore) *ProgramService {
	logger := testLogger()
	activityDAO := dao.NewActivityLogDAO(db)

	return NewProgramService(
		dao.NewProgramDAO(db),
		dao.NewAreaLevelDAO(db),
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

func expectProgramRow(mock sqlmock.Sqlmock, id int64) {
	mock.ExpectQuery(`FROM programs WHERE id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "code", "description", "status", "created_at", "updated_at",
		}).AddRow(id, "Engineering", "ENG", "", models.StatusActive, time.Now(), time.Now()))
}

// TestCreateProgramRejectsDuplicateCode tests the code uniqueness check
func TestCreateProgramRejectsDuplicateCode(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newProgramService(db, newMemFileStore(t))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM programs WHERE code`).
		WithArgs("ENG", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.CreateProgram(context.Background(), testActor(), testMeta(),
		&models.ProgramCreateRequest{Name: "Engineering", Code: "ENG"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

// TestCreateProgramRejectsInvalidStatus tests status validation before any
// database access
func TestCreateProgramRejectsInvalidStatus(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newProgramService(db, newMemFileStore(t))

	_, err := svc.CreateProgram(context.Background(), testActor(), testMeta(),
		&models.ProgramCreateRequest{Name: "Engineering", Code: "ENG", Status: "frozen"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDeleteProgramCascades tests that a program delete removes every
// descendant row in one transaction and the stored files after commit
func TestDeleteProgramCascades(t *testing.T) {
	db, mock := newMockDB(t)
	files := newMemFileStore(t)
	svc := newProgramService(db, files)

	paramFile, _, err := files.Save(strings.NewReader("report"), ".pdf")
	require.NoError(t, err)
	subFile, _, err := files.Save(strings.NewReader("scan"), ".png")
	require.NoError(t, err)

	expectProgramRow(mock, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM area_levels WHERE program_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	mock.ExpectQuery(`SELECT id FROM parameters WHERE area_level_id IN`).
		WithArgs(int64(10), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20).AddRow(21))
	mock.ExpectQuery(`SELECT id FROM sub_parameters WHERE parameter_id IN`).
		WithArgs(int64(20), int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(40))
	mock.ExpectQuery(`SELECT file_path FROM evidence WHERE parameter_id IN`).
		WithArgs(int64(20), int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).AddRow(paramFile))
	mock.ExpectQuery(`SELECT file_path FROM evidence WHERE sub_parameter_id IN`).
		WithArgs(int64(40)).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).AddRow(subFile))

	// Children before parents, permission rows before their scope rows
	mock.ExpectExec(`DELETE FROM evidence WHERE parameter_id IN`).
		WithArgs(int64(20), int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM evidence WHERE sub_parameter_id IN`).
		WithArgs(int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sub_parameters WHERE id IN`).
		WithArgs(int64(40)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM parameter_user_permissions WHERE parameter_id IN`).
		WithArgs(int64(20), int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM parameters WHERE id IN`).
		WithArgs(int64(20), int64(21)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM area_user_permissions WHERE area_id IN`).
		WithArgs(int64(10), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM area_levels WHERE program_id`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM programs WHERE id`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO activity_logs`).
		WithArgs(int64(101), models.ActivityCascadeDelete, sqlmock.AnyArg(), "10.0.0.5", "test-agent").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = svc.DeleteProgram(context.Background(), testActor(), testMeta(), 1)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())

	// Files go only after the commit, and they are gone now
	for _, path := range []string{paramFile, subFile} {
		exists, err := files.Exists(path)
		require.NoError(t, err)
		assert.False(t, exists)
	}
}

// TestDeleteProgramRollsBackAndKeepsFiles tests that a database failure rolls
// the transaction back and leaves stored files untouched
func TestDeleteProgramRollsBackAndKeepsFiles(t *testing.T) {
	db, mock := newMockDB(t)
	files := newMemFileStore(t)
	svc := newProgramService(db, files)

	evidenceFile, _, err := files.Save(strings.NewReader("report"), ".pdf")
	require.NoError(t, err)

	expectProgramRow(mock, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM area_levels WHERE program_id`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectQuery(`SELECT id FROM parameters WHERE area_level_id IN`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(20))
	mock.ExpectQuery(`SELECT id FROM sub_parameters WHERE parameter_id IN`).
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT file_path FROM evidence WHERE parameter_id IN`).
		WithArgs(int64(20)).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).AddRow(evidenceFile))
	mock.ExpectExec(`DELETE FROM evidence WHERE parameter_id IN`).
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM parameter_user_permissions WHERE parameter_id IN`).
		WithArgs(int64(20)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM parameters WHERE id IN`).
		WithArgs(int64(20)).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err = svc.DeleteProgram(context.Background(), testActor(), testMeta(), 1)
	assert.True(t, apperror.IsKind(err, apperror.KindDeletionFailed))

	assert.NoError(t, mock.ExpectationsWereMet())

	// The file must survive; no row was actually deleted
	exists, err := files.Exists(evidenceFile)
	require.NoError(t, err)
	assert.True(t, exists)
}

// TestDeleteProgramNotFound tests deleting a missing program
func TestDeleteProgramNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newProgramService(db, newMemFileStore(t))

	mock.ExpectQuery(`FROM programs WHERE id`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	err := svc.DeleteProgram(context.Background(), testActor(), testMeta(), 404)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

// TestDeleteProgramWithEmptySubtree tests the cascade when the program has
// no areas at all
func TestDeleteProgramWithEmptySubtree(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newProgramService(db, newMemFileStore(t))

	expectProgramRow(mock, 2)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM area_levels WHERE program_id`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// Empty ID slices short-circuit every scoped bulk statement
	mock.ExpectExec(`DELETE FROM area_levels WHERE program_id`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM programs WHERE id`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO activity_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := svc.DeleteProgram(context.Background(), testActor(), testMeta(), 2)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
