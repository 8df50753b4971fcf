package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config groups all externally supplied settings for the client.
type Config struct {
	// BaseURL is the single backend endpoint all calls are made against.
	BaseURL  string `env:"BASE_URL, required"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// HTTPTimeout bounds every individual outbound call.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=15s"`

	State  StateConfig
	Health HealthConfig
}

// StateConfig controls where the session record is persisted. The file store
// is the default; setting RedisAddr switches to the shared Redis store used
// by kiosk and headless deployments.
type StateConfig struct {
	FilePath  string `env:"STATE_FILE, default=.inventory-client/session.json"`
	Namespace string `env:"STATE_NAMESPACE, default=inventory_client"`
	RedisAddr string `env:"REDIS_ADDR"`
	RedisDB   int    `env:"REDIS_DB, default=0"`
}

// HealthConfig controls the periodic backend liveness probe.
type HealthConfig struct {
	Interval time.Duration `env:"HEALTH_INTERVAL, default=30s"`
	Timeout  time.Duration `env:"HEALTH_TIMEOUT, default=3s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
