package handlers

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaccred/accreditation-mgt-api/internal/dao"
	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/service"
	"github.com/openaccred/accreditation-mgt-api/internal/storage"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProgramTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db := database.NewFromSqlx(sqlx.NewDb(mockDB, "sqlmock"), logger)
	files, err := storage.NewFileStoreWithFs(afero.NewMemMapFs(), "/evidence", logger)
	require.NoError(t, err)

	activityDAO := dao.NewActivityLogDAO(db)
	programService := service.NewProgramService(
		dao.NewProgramDAO(db),
		dao.NewAreaLevelDAO(db),
		dao.NewParameterDAO(db),
		dao.NewSubParameterDAO(db),
		dao.NewEvidenceDAO(db),
		dao.NewPermissionDAO(db),
		activityDAO,
		files,
		service.NewAuditRecorder(activityDAO, logger),
		db,
		logger,
	)

	handler := NewProgramHandler(programService)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(utils.ContextKeyActor, models.ActorContext{
			UserID:       101,
			Capabilities: []string{models.CapabilityAdmin},
		})
	})
	router.POST("/programs", handler.CreateProgram)
	router.GET("/programs/:programId", handler.GetProgram)
	router.DELETE("/programs/:programId", handler.DeleteProgram)

	return router, mock
}

// TestGetProgramReturnsRow tests the 200 path with a JSON body
func TestGetProgramReturnsRow(t *testing.T) {
	router, mock := newProgramTestRouter(t)

	mock.ExpectQuery(`FROM programs WHERE id`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "code", "description", "status", "created_at", "updated_at",
		}).AddRow(7, "Engineering", "ENG", "", models.StatusActive, time.Now(), time.Now()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/programs/7", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body models.Program
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, "ENG", body.Code)
}

// TestGetProgramRejectsBadID tests the 400 on a non-numeric path parameter
func TestGetProgramRejectsBadID(t *testing.T) {
	router, mock := newProgramTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/programs/abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestGetProgramNotFound tests the 404 mapping
func TestGetProgramNotFound(t *testing.T) {
	router, mock := newProgramTestRouter(t)

	mock.ExpectQuery(`FROM programs WHERE id`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/programs/404", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.ErrCodeNotFound, body.Code)
}

// TestCreateProgramRejectsMissingFields tests request binding
func TestCreateProgramRejectsMissingFields(t *testing.T) {
	router, mock := newProgramTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/programs",
		strings.NewReader(`{"name": "Engineering"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCreateProgramReturnsCreatedRow tests the 201 path
func TestCreateProgramReturnsCreatedRow(t *testing.T) {
	router, mock := newProgramTestRouter(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM programs WHERE code`).
		WithArgs("ENG", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO programs`).
		WithArgs("Engineering", "ENG", "", models.StatusActive).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`INSERT INTO activity_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM programs WHERE id`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "code", "description", "status", "created_at", "updated_at",
		}).AddRow(7, "Engineering", "ENG", "", models.StatusActive, time.Now(), time.Now()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/programs",
		strings.NewReader(`{"name": "Engineering", "code": "ENG"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var body models.Program
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
}
