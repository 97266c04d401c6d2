package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{"APP_ENV", "LOG_LEVEL", "KAFKA_BROKERS", "KAFKA_TOPIC", "SNAPSHOT_DB_DRIVER", "SNAPSHOT_DB_URL"}

// clearEnv empties every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "transactions.processed", cfg.KafkaTopic)
	assert.False(t, cfg.PublishEvents())
	assert.False(t, cfg.SnapshotToDB())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SNAPSHOT_DB_DRIVER", "postgres")
	t.Setenv("SNAPSHOT_DB_URL", "postgres://localhost/engine")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PublishEvents())
	assert.True(t, cfg.SnapshotToDB())
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nKAFKA_TOPIC=from-file\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	// the environment wins over the file
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "from-file", cfg.KafkaTopic)
}

func TestValidate(t *testing.T) {
	valid := Config{Environment: "development", LogLevel: "info", KafkaTopic: "t"}
	require.NoError(t, valid.Validate())

	badLevel := valid
	badLevel.LogLevel = "loud"
	assert.Error(t, badLevel.Validate())

	driverOnly := valid
	driverOnly.SnapshotDBDriver = "sqlite3"
	assert.Error(t, driverOnly.Validate())

	urlOnly := valid
	urlOnly.SnapshotDBURL = "file:snap.db"
	assert.Error(t, urlOnly.Validate())

	unknownDriver := valid
	unknownDriver.SnapshotDBDriver = "mysql"
	unknownDriver.SnapshotDBURL = "root@/db"
	assert.Error(t, unknownDriver.Validate())

	sqlite := valid
	sqlite.SnapshotDBDriver = "sqlite3"
	sqlite.SnapshotDBURL = "file:snap.db"
	assert.NoError(t, sqlite.Validate())

	noTopic := valid
	noTopic.KafkaBrokers = []string{"localhost:9092"}
	noTopic.KafkaTopic = ""
	assert.Error(t, noTopic.Validate())
}
