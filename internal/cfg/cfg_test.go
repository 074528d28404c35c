package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"STORAGE_BACKEND", "STORAGE_NAMESPACE", "DATA_DIR", "HTTP_HOST", "HTTP_PORT",
		"HTTP_READ_TIMEOUT", "TIME_ZONE", "MINIO_ENDPOINT", "KAFKA_BROKERS",
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_MAX_CONNS", "MIGRATIONS_DIR", "REDIS_ADDR",
		"REPORT_ARCHIVE_SCHEDULE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	config, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", config.Http.Host)
	assert.Equal(t, "8080", config.Http.Port)
	assert.Equal(t, 5*time.Second, config.Http.ReadTimeout)
	assert.Equal(t, StorageFile, config.Storage.Backend)
	assert.Equal(t, "appData", config.Storage.Namespace)
	assert.Equal(t, time.Local, config.App.Location)
	assert.Nil(t, config.Db)
	assert.Nil(t, config.Redis)
	assert.Nil(t, config.Minio)
	assert.Nil(t, config.Kafka)
}

func TestLoad_Postgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BACKEND", "Postgres")

	_, err := Load(logger.NewNop())
	require.Error(t, err)

	t.Setenv("POSTGRES_USER", "shop")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "ledger")
	t.Setenv("KAFKA_BROKERS", "kafka:9092, ,kafka2:9092")

	config, err := Load(logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, config.Db)
	assert.Equal(t, "localhost", config.Db.Host)
	assert.Equal(t, 4, config.Db.MaxConns)
	assert.Equal(t, "db/migrations", config.Db.MigrationsDir)
	require.NotNil(t, config.Kafka)
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, config.Kafka.Brokers)
	assert.Equal(t, "ledger-events", config.Kafka.Topic)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "backend", key: "STORAGE_BACKEND", value: "sqlite"},
		{name: "time zone", key: "TIME_ZONE", value: "Mars/Olympus"},
		{name: "timeout", key: "HTTP_READ_TIMEOUT", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(logger.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestLoad_MinIO(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINIO_ENDPOINT", "minio:9000")

	config, err := Load(logger.NewNop())
	require.NoError(t, err)
	require.NotNil(t, config.Minio)
	assert.Equal(t, "reports", config.Minio.BucketName)
	assert.Empty(t, config.Minio.ArchiveSchedule)

	t.Setenv("REPORT_ARCHIVE_SCHEDULE", "0 55 23 * * *")
	config, err = Load(logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "0 55 23 * * *", config.Minio.ArchiveSchedule)
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("SOME_INT", "abc")

	v, err := parseIntEnv("SOME_INT", 3)
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
	assert.Equal(t, 3, v)
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ALDJIDAY_TEST_VAR=from-file\n"), 0o600))
	t.Setenv("ALDJIDAY_TEST_VAR", "")
	os.Unsetenv("ALDJIDAY_TEST_VAR")

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("ALDJIDAY_TEST_VAR"))
}
