// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Server, Kafka, Redis, Processor, Approver, Handoff, Router, etc.).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Redis     RedisConfig     `yaml:"redis"`
	Processor ProcessorConfig `yaml:"processor"`
	Approver  ApproverConfig  `yaml:"approver"`
	Handoff   HandoffConfig   `yaml:"handoff"`
	Router    RouterConfig    `yaml:"router"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps loan types to the topic their requests are published on.
type KafkaTopics struct {
	Personal  string `yaml:"personal"`
	RealState string `yaml:"realState"`
	Vehicle   string `yaml:"vehicle"`
	Unknown   string `yaml:"unknown"`
}

// All returns every configured loan topic, skipping empty entries.
func (t KafkaTopics) All() []string {
	var topics []string
	for _, topic := range []string{t.Personal, t.RealState, t.Vehicle, t.Unknown} {
		if topic != "" {
			topics = append(topics, topic)
		}
	}
	return topics
}

// RedisConfig holds Redis connection parameters. When enabled, the credit
// score table is seeded once at startup from the hash at CreditScoreKey.
type RedisConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Addr           string `yaml:"addr"`
	Password       string `yaml:"password"`
	DB             int    `yaml:"db"`
	PoolSize       int    `yaml:"poolSize"`
	CreditScoreKey string `yaml:"creditScoreKey"`
}

// ProcessorConfig controls which topics a processor consumes, how it labels
// its output, and where enriched requests are sent.
type ProcessorConfig struct {
	Type        string   `yaml:"type"`
	Topics      []string `yaml:"topics"`
	ApproverURL string   `yaml:"approverUrl"`
}

// ApproverConfig holds the notifier endpoint used by the approver.
type ApproverConfig struct {
	NotifierURL string `yaml:"notifierUrl"`
}

// HandoffConfig controls the fire-and-forget dispatcher shared by the
// processor and approver.
type HandoffConfig struct {
	Timeout          time.Duration `yaml:"timeout"`
	Workers          int           `yaml:"workers"`
	QueueSize        int           `yaml:"queueSize"`
	FailureThreshold int           `yaml:"failureThreshold"`
	ResetTimeout     time.Duration `yaml:"resetTimeout"`
}

// RouterConfig controls the intake service's Kafka producer.
type RouterConfig struct {
	PublishTimeout time.Duration `yaml:"publishTimeout"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that would leave a service unable to start.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Handoff.Timeout <= 0 {
		return fmt.Errorf("handoff timeout must be positive, got %v", c.Handoff.Timeout)
	}
	if c.Handoff.Workers <= 0 {
		return fmt.Errorf("handoff workers must be positive, got %d", c.Handoff.Workers)
	}
	if c.Handoff.QueueSize <= 0 {
		return fmt.Errorf("handoff queue size must be positive, got %d", c.Handoff.QueueSize)
	}
	return nil
}

// defaultConfig returns a Config with defaults for local development.
func defaultConfig() *Config {
	topics := KafkaTopics{
		Personal:  "loans-personal",
		RealState: "loans-real-state",
		Vehicle:   "loans-vehicle",
		Unknown:   "loans-unknown",
	}
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "loan-processors",
			Topics:        topics,
		},
		Redis: RedisConfig{
			Enabled:        false,
			Addr:           "localhost:6379",
			PoolSize:       10,
			CreditScoreKey: "credit-scores",
		},
		Processor: ProcessorConfig{
			Type:        "default",
			Topics:      topics.All(),
			ApproverURL: "http://localhost:8081",
		},
		Approver: ApproverConfig{
			NotifierURL: "http://localhost:5001",
		},
		Handoff: HandoffConfig{
			Timeout:          5 * time.Second,
			Workers:          8,
			QueueSize:        1000,
			FailureThreshold: 5,
			ResetTimeout:     30 * time.Second,
		},
		Router: RouterConfig{
			PublishTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads LOAN_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOAN_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LOAN_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("LOAN_KAFKA_CONSUMER_GROUP"); v != "" {
		cfg.Kafka.ConsumerGroup = v
	}
	if v := os.Getenv("LOAN_PROCESSOR_TYPE"); v != "" {
		cfg.Processor.Type = v
	}
	if v := os.Getenv("LOAN_PROCESSOR_TOPICS"); v != "" {
		cfg.Processor.Topics = strings.Split(v, ",")
	}
	if v := os.Getenv("LOAN_APPROVER_URL"); v != "" {
		cfg.Processor.ApproverURL = v
	}
	if v := os.Getenv("LOAN_NOTIFIER_URL"); v != "" {
		cfg.Approver.NotifierURL = v
	}
	if v := os.Getenv("LOAN_HANDOFF_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Handoff.Timeout = d
		}
	}
	if v := os.Getenv("LOAN_REDIS_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Redis.Enabled = enabled
		}
	}
	if v := os.Getenv("LOAN_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("LOAN_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("LOAN_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOAN_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LOAN_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
