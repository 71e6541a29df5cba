// Package config provides configuration parsing and validation for the
// notifier service.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/phatdat20905/ev-co-ownership-system-sub001/internal/events"
)

// Config holds all configuration parameters for the notifier service.
type Config struct {
	KafkaBrokers     string
	ConsumerGroupID  string
	PostgresDSN      string
	RedisAddr        string
	Workers          int
	UrgentCategories string
}

// Validate checks that all required configuration fields are set and
// have valid values.
func (c *Config) Validate() error {
	if c.KafkaBrokers == "" {
		return fmt.Errorf("kafka-brokers cannot be empty")
	}
	if c.ConsumerGroupID == "" {
		return fmt.Errorf("consumer-group-id cannot be empty")
	}
	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres-dsn cannot be empty")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

// Urgent parses the comma-separated urgent category list. Urgent
// categories bypass quiet-hours suppression.
func (c *Config) Urgent() []events.Category {
	if c.UrgentCategories == "" {
		return nil
	}
	parts := strings.Split(c.UrgentCategories, ",")
	urgent := make([]events.Category, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			urgent = append(urgent, events.Category(p))
		}
	}
	return urgent
}

// GetEnvOrDefault returns the environment variable value or a default
// if not set.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
