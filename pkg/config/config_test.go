package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Handoff.Timeout)
	assert.Equal(t, "default", cfg.Processor.Type)
	assert.Equal(t, []string{"loans-personal", "loans-real-state", "loans-vehicle", "loans-unknown"}, cfg.Processor.Topics)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 8181
processor:
  type: vehicle
  topics: [loans-vehicle]
  approverUrl: http://approver:8080
handoff:
  timeout: 2s
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "vehicle", cfg.Processor.Type)
	assert.Equal(t, []string{"loans-vehicle"}, cfg.Processor.Topics)
	assert.Equal(t, "http://approver:8080", cfg.Processor.ApproverURL)
	assert.Equal(t, 2*time.Second, cfg.Handoff.Timeout)
	// untouched sections keep their defaults
	assert.Equal(t, 8, cfg.Handoff.Workers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LOAN_PROCESSOR_TYPE", "personal")
	t.Setenv("LOAN_APPROVER_URL", "http://loan-approver:8080")
	t.Setenv("LOAN_NOTIFIER_URL", "http://loan-notifier:5001")
	t.Setenv("LOAN_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("LOAN_HANDOFF_TIMEOUT", "750ms")
	t.Setenv("LOAN_REDIS_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "personal", cfg.Processor.Type)
	assert.Equal(t, "http://loan-approver:8080", cfg.Processor.ApproverURL)
	assert.Equal(t, "http://loan-notifier:5001", cfg.Approver.NotifierURL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 750*time.Millisecond, cfg.Handoff.Timeout)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsNonPositiveHandoffTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.Handoff.Timeout = 0
	assert.Error(t, cfg.Validate())
}

func TestKafkaTopicsAllSkipsEmpty(t *testing.T) {
	topics := KafkaTopics{Personal: "p", Vehicle: "v"}
	assert.Equal(t, []string{"p", "v"}, topics.All())
}
