package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("DB_WRITER_DSN", "postgres://localhost/biztime_test")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, cfg.Database.WriterDSN, cfg.Database.ReaderDSN)
	assert.True(t, cfg.Database.SnapshotReads)
	assert.Equal(t, "noop", cfg.Messaging.Driver)
	assert.Equal(t, "noop", cfg.RateLimit.Driver)
	assert.Equal(t, "/metrics", cfg.Observability.PrometheusPath)
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("DB_DRIVER", "SQLite3")
	t.Setenv("DB_WRITER_DSN", "file:biztime.db")
	t.Setenv("DB_SNAPSHOT_READS", "false")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DRIVER", "Redis")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("MESSAGING_ENABLED", "true")
	t.Setenv("OBS_PROMETHEUS_PATH", "prom")
	t.Setenv("OBS_LOG_LEVEL", " DEBUG ")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.Database.SnapshotReads)
	assert.Equal(t, "redis", cfg.RateLimit.Driver)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "kafka", cfg.Messaging.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Messaging.Kafka.Brokers)
	assert.Equal(t, "/prom", cfg.Observability.PrometheusPath)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"HTTP_PORT": "-1"}},
		{name: "unknown database driver", env: map[string]string{"DB_DRIVER": "oracle"}},
		{name: "empty dsn", env: map[string]string{"DB_WRITER_DSN": ""}},
		{name: "unknown rate limit driver", env: map[string]string{"RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_DRIVER": "memcached"}},
		{name: "unknown messaging driver", env: map[string]string{"MESSAGING_ENABLED": "true", "MESSAGING_DRIVER": "nats"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("BIZTIME_TEST_INT", "nope")
	t.Setenv("BIZTIME_TEST_BLANK", "  ")
	t.Setenv("BIZTIME_TEST_LIST", " a, ,b ")

	assert.Equal(t, 7, getEnvAsInt("BIZTIME_TEST_INT", 7))
	assert.Equal(t, "  ", getEnv("BIZTIME_TEST_BLANK", "dflt"))
	assert.Equal(t, "dflt", getEnv("BIZTIME_TEST_UNSET", "dflt"))
	assert.Equal(t, time.Second, getEnvAsDuration("BIZTIME_TEST_UNSET", time.Second))
	assert.Equal(t, []string{"a", "b"}, getEnvAsStringSlice("BIZTIME_TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, getEnvAsStringSlice("BIZTIME_TEST_BLANK", []string{"x"}))
}

func TestNewRejectsExplicitlyEmptyWriterDSN(t *testing.T) {
	t.Setenv("DB_WRITER_DSN", "")

	_, err := New()
	assert.ErrorContains(t, err, "missing DB_WRITER_DSN")
}
