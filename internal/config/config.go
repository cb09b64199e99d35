package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds tool settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	CollectionID string

	// KafkaBrokers is empty when publishing is disabled.
	KafkaBrokers      []string
	KafkaSinkTopic    string
	KafkaWriteTimeout time.Duration

	// MetricsTextfile is a Prometheus textfile-collector path; empty disables export.
	MetricsTextfile string
}

// PublishEnabled reports whether items should also be sent to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	writeTimeout, err := time.ParseDuration(envOrDefault("KAFKA_WRITE_TIMEOUT", "10s"))
	if err != nil || writeTimeout <= 0 {
		return nil, errors.New("invalid KAFKA_WRITE_TIMEOUT")
	}

	cfg := &Config{
		LogLevel:          strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
		LogFormat:         strings.ToLower(envOrDefault("LOG_FORMAT", "json")),
		CollectionID:      envOrDefault("GEFS_COLLECTION_ID", "noaa-gefs"),
		KafkaBrokers:      parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic:    envOrDefault("KAFKA_SINK_TOPIC", "gefs-stac-items"),
		KafkaWriteTimeout: writeTimeout,
		MetricsTextfile:   os.Getenv("METRICS_TEXTFILE"),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q", cfg.LogFormat)
	}
	if cfg.CollectionID == "" {
		return nil, errors.New("GEFS_COLLECTION_ID is required")
	}
	if cfg.PublishEnabled() && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// envOrDefault returns the environment variable value, or def when unset or empty.
func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// parseBrokers splits a comma-separated broker list, dropping blanks.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
