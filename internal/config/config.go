package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

const (
	defaultEnvironment = "development"
	defaultLogLevel    = "info"
	defaultKafkaTopic  = "transactions.processed"
)

var supportedDrivers = map[string]bool{
	"postgres": true,
	"sqlite3":  true,
}

// Config holds the engine configuration. The input path is not part of it:
// it is always the first command-line argument.
type Config struct {
	Environment      string
	LogLevel         string
	KafkaBrokers     []string
	KafkaTopic       string
	SnapshotDBDriver string
	SnapshotDBURL    string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	cfg := &Config{
		Environment:      getenv("APP_ENV", defaultEnvironment),
		LogLevel:         getenv("LOG_LEVEL", defaultLogLevel),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:       getenv("KAFKA_TOPIC", defaultKafkaTopic),
		SnapshotDBDriver: os.Getenv("SNAPSHOT_DB_DRIVER"),
		SnapshotDBURL:    os.Getenv("SNAPSHOT_DB_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is consistent.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if (c.SnapshotDBDriver == "") != (c.SnapshotDBURL == "") {
		return errors.New("SNAPSHOT_DB_DRIVER and SNAPSHOT_DB_URL must be set together")
	}
	if c.SnapshotDBDriver != "" && !supportedDrivers[c.SnapshotDBDriver] {
		return fmt.Errorf("unsupported SNAPSHOT_DB_DRIVER %q (use postgres or sqlite3)", c.SnapshotDBDriver)
	}

	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return nil
}

// PublishEvents reports whether a Kafka publisher should be started.
func (c *Config) PublishEvents() bool {
	return len(c.KafkaBrokers) > 0
}

// SnapshotToDB reports whether the snapshot should also be written to a database.
func (c *Config) SnapshotToDB() bool {
	return c.SnapshotDBDriver != ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
