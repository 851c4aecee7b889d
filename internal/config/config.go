// Package config provides runtime configuration values for the service.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds configuration knobs for the HTTP server, store, and
// notification delivery.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	// DataDir is the Badger directory. Empty means a transient in-memory
	// store that is discarded on shutdown.
	DataDir string `envconfig:"DATA_DIR" default:""`
	// PublishAsync routes notifications through a bounded delivery queue
	// instead of publishing them inline after a command commits.
	PublishAsync     bool   `envconfig:"PUBLISH_ASYNC" default:"false"`
	PublishQueueSize int    `envconfig:"PUBLISH_QUEUE_SIZE" default:"256"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load collects configuration from environment with defaults.
func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
