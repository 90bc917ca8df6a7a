package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaccred/accreditation-mgt-api/internal/apperror"
	"github.com/openaccred/accreditation-mgt-api/internal/dao"
	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/storage"
)

func newEvidenceService(db *database.DB, files *storage.FileStore) *EvidenceService {
	logger := testLogger()

	return NewEvidenceService(
		dao.NewEvidenceDAO(db),
		dao.NewParameterDAO(db),
		dao.NewSubParameterDAO(db),
		files,
		NewAuditRecorder(dao.NewActivityLogDAO(db), logger),
		1024,
		logger,
	)
}

func int64Ptr(v int64) *int64 { return &v }

func evidenceColumns() []string {
	return []string{"id", "parameter_id", "sub_parameter_id", "file_name", "file_path",
		"file_type", "file_size", "status", "uploaded_by", "created_at"}
}

// TestUploadRequiresExactlyOneTarget tests the attachment target validation
func TestUploadRequiresExactlyOneTarget(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newEvidenceService(db, newMemFileStore(t))

	// Neither target
	_, err := svc.Upload(context.Background(), testActor(), testMeta(), &EvidenceUploadRequest{
		FileName: "report.pdf", Size: 10, Content: strings.NewReader("0123456789"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	// Both targets
	_, err = svc.Upload(context.Background(), testActor(), testMeta(), &EvidenceUploadRequest{
		ParameterID:    int64Ptr(5),
		SubParameterID: int64Ptr(7),
		FileName:       "report.pdf", Size: 10, Content: strings.NewReader("0123456789"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

// TestUploadRejectsOversizedFile tests the size ceiling
func TestUploadRejectsOversizedFile(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newEvidenceService(db, newMemFileStore(t))

	_, err := svc.Upload(context.Background(), testActor(), testMeta(), &EvidenceUploadRequest{
		ParameterID: int64Ptr(5),
		FileName:    "huge.pdf",
		Size:        2048,
		Content:     strings.NewReader("x"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

// TestUploadStoresFileAndRow tests the happy path of a parameter upload
func TestUploadStoresFileAndRow(t *testing.T) {
	db, mock := newMockDB(t)
	files := newMemFileStore(t)
	svc := newEvidenceService(db, files)

	expectParameterRow(mock, 5, 30)
	mock.ExpectExec(`INSERT INTO evidence`).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(`INSERT INTO activity_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM evidence WHERE id`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(evidenceColumns()).
			AddRow(9, 5, nil, "report.pdf", "/evidence/x.pdf", "application/pdf",
				6, models.EvidenceStatusPending, 101, time.Now()))

	evidence, err := svc.Upload(context.Background(), testActor(), testMeta(), &EvidenceUploadRequest{
		ParameterID: int64Ptr(5),
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Size:        6,
		Content:     strings.NewReader("report"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.EvidenceStatusPending, evidence.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestUploadRemovesFileWhenInsertFails tests the orphan-file cleanup
func TestUploadRemovesFileWhenInsertFails(t *testing.T) {
	db, mock := newMockDB(t)

	fs := afero.NewMemMapFs()
	files, err := storage.NewFileStoreWithFs(fs, "/evidence", testLogger())
	require.NoError(t, err)

	svc := newEvidenceService(db, files)

	expectParameterRow(mock, 5, 30)
	mock.ExpectExec(`INSERT INTO evidence`).
		WillReturnError(assert.AnError)

	_, err = svc.Upload(context.Background(), testActor(), testMeta(), &EvidenceUploadRequest{
		ParameterID: int64Ptr(5),
		FileName:    "report.pdf",
		Size:        6,
		Content:     strings.NewReader("report"),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))

	// The orphaned file was removed again
	entries, err := afero.ReadDir(fs, "/evidence")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestReviewRejectsUnknownStatus tests review status validation
func TestReviewRejectsUnknownStatus(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newEvidenceService(db, newMemFileStore(t))

	_, err := svc.Review(context.Background(), testActor(), testMeta(), 9, "pending")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

// TestReviewIsIdempotentForSameStatus tests that re-approving approved
// evidence writes nothing
func TestReviewIsIdempotentForSameStatus(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newEvidenceService(db, newMemFileStore(t))

	mock.ExpectQuery(`FROM evidence WHERE id`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(evidenceColumns()).
			AddRow(9, 5, nil, "report.pdf", "/evidence/x.pdf", "application/pdf",
				6, models.EvidenceStatusApproved, 101, time.Now()))

	evidence, err := svc.Review(context.Background(), testActor(), testMeta(), 9,
		models.EvidenceStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.EvidenceStatusApproved, evidence.Status)

	// No UPDATE reached the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestDownloadReturnsStoredContent tests the download roundtrip
func TestDownloadReturnsStoredContent(t *testing.T) {
	db, mock := newMockDB(t)
	files := newMemFileStore(t)
	svc := newEvidenceService(db, files)

	path, _, err := files.Save(strings.NewReader("scanned page"), ".png")
	require.NoError(t, err)

	mock.ExpectQuery(`FROM evidence WHERE id`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(evidenceColumns()).
			AddRow(9, nil, 40, "page.png", path, "image/png",
				12, models.EvidenceStatusPending, 101, time.Now()))

	evidence, f, err := svc.Download(context.Background(), 9)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "page.png", evidence.FileName)

	buf := make([]byte, 32)
	n, _ := f.Read(buf)
	assert.Equal(t, "scanned page", string(buf[:n]))
}

// TestDeleteRemovesRowThenFile tests evidence deletion order
func TestDeleteRemovesRowThenFile(t *testing.T) {
	db, mock := newMockDB(t)
	files := newMemFileStore(t)
	svc := newEvidenceService(db, files)

	path, _, err := files.Save(strings.NewReader("report"), ".pdf")
	require.NoError(t, err)

	mock.ExpectQuery(`FROM evidence WHERE id`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(evidenceColumns()).
			AddRow(9, 5, nil, "report.pdf", path, "application/pdf",
				6, models.EvidenceStatusPending, 101, time.Now()))
	mock.ExpectExec(`DELETE FROM evidence WHERE id`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO activity_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, svc.Delete(context.Background(), testActor(), testMeta(), 9))

	exists, err := files.Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)
}
