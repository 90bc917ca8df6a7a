package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
server:
  hostname: "127.0.0.1"
  port: 8080
  read_timeout: 15s
database:
  hostname: "localhost"
  port: 3306
  user: "accred"
  password: "secret"
  database: "accreditation_mgt"
storage:
  evidence_dir: "/var/lib/accred/evidence"
  max_file_size: 1048576
logging:
  level: "debug"
`

// TestLoadValidConfig tests loading and unmarshalling a full config file
func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Hostname)
	assert.Equal(t, int64(1048576), cfg.Storage.MaxFileSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.GetServerAddress())
}

// TestLoadRejectsMissingDatabase tests validation of required fields
func TestLoadRejectsMissingDatabase(t *testing.T) {
	_, err := Load(writeConfigFile(t, `
server:
  port: 8080
storage:
  evidence_dir: "/tmp/evidence"
  max_file_size: 1024
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database hostname")
}

// TestLoadRejectsBadPort tests server port validation
func TestLoadRejectsBadPort(t *testing.T) {
	_, err := Load(writeConfigFile(t, `
server:
  port: 99999
database:
  hostname: "localhost"
  database: "accreditation_mgt"
storage:
  evidence_dir: "/tmp/evidence"
  max_file_size: 1024
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

// TestGetDSN tests the MySQL connection string format
func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Hostname: "db.internal",
		Port:     3306,
		User:     "accred",
		Password: "secret",
		Database: "accreditation_mgt",
	}

	assert.Equal(t,
		"accred:secret@tcp(db.internal:3306)/accreditation_mgt?parseTime=true&multiStatements=true",
		cfg.GetDSN())
}

// TestValidateUser tests basic auth credential matching
func TestValidateUser(t *testing.T) {
	cfg := SecurityConfig{
		BasicAuth: BasicAuthConfig{
			Enabled: true,
			Users:   []BasicAuthUser{{Username: "ops", Password: "secret"}},
		},
	}

	assert.True(t, cfg.ValidateUser("ops", "secret"))
	assert.False(t, cfg.ValidateUser("ops", "wrong"))
	assert.False(t, cfg.ValidateUser("unknown", "secret"))
}
