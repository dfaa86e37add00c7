// Package config provides configuration for the analytics service.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the service configuration.
type Config struct {
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// DataDir is the working directory for the database file. The file
	// itself is throwaway; only the snapshot slot is durable.
	DataDir string `env:"DATA_DIR" envDefault:"./data"`

	// Snapshot slot settings.
	SnapshotKey       string `env:"SNAPSHOT_KEY" envDefault:"sessionlens/snapshot"`
	SnapshotWarnBytes int    `env:"SNAPSHOT_WARN_BYTES" envDefault:"4194304"`

	// KVBackend selects the snapshot slot: memory, file or redis.
	KVBackend string `env:"KV_BACKEND" envDefault:"file"`
	KVDir     string `env:"KV_DIR" envDefault:"./data/kv"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// DefaultLocale is the BCP-47 tag used for geo/language display names
	// when a request does not supply one.
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`
}

// Load loads configuration from the environment, reading a .env file
// first when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
