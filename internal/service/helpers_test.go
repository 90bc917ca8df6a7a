package service

import (
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/openaccred/accreditation-mgt-api/internal/database"
	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/storage"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return database.NewFromSqlx(sqlx.NewDb(mockDB, "sqlmock"), testLogger()), mock
}

func newMemFileStore(t *testing.T) *storage.FileStore {
	t.Helper()

	store, err := storage.NewFileStoreWithFs(afero.NewMemMapFs(), "/evidence", testLogger())
	require.NoError(t, err)
	return store
}

func testActor(capabilities ...string) models.ActorContext {
	return models.ActorContext{UserID: 101, Capabilities: capabilities}
}

func testMeta() models.RequestMeta {
	return models.RequestMeta{IPAddress: "10.0.0.5", UserAgent: "test-agent"}
}

func grantColumns() []string {
	return []string{"user_id", "parameter_id", "can_view", "can_add", "can_edit",
		"can_delete", "can_download", "can_approve"}
}

func areaGrantColumns() []string {
	return []string{"user_id", "area_id", "can_view", "can_add", "can_edit",
		"can_delete", "can_download", "can_approve"}
}
