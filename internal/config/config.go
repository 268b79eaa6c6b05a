package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the matcher.
type Config struct {
	// Input / output
	Input        string
	OutputFormat string

	// Ops HTTP server (health and metrics)
	MetricsAddr      string
	MetricsNamespace string

	// RabbitMQ
	RabbitMQURL      string
	RabbitMQExchange string
	EventBuffer      int

	// Engine
	StartOrderID uint64

	LogLevel string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Input:        getEnv("MATCHER_INPUT", "-"),
		OutputFormat: getEnv("MATCHER_OUTPUT", "json"),

		MetricsAddr:      getEnv("METRICS_ADDR", ":9090"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "outcome_book"),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "outcome-book.events"),
		EventBuffer:      getEnvInt("EVENT_BUFFER", 4096),

		StartOrderID: getEnvUint("START_ORDER_ID", 0),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// MetricsEnabled reports whether the ops HTTP server should run.
func (c *Config) MetricsEnabled() bool {
	return c.MetricsAddr != ""
}

// PublishingEnabled reports whether engine events go to RabbitMQ.
func (c *Config) PublishingEnabled() bool {
	return c.RabbitMQURL != ""
}

// getEnv reads an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultValue
}

// getEnvInt reads an environment variable as int with a default value.
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseUint(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}
