package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config is the top-level configuration struct. Start from Default() and
// override only what you need.
type Config struct {
	// Encode worker pool controls.
	WorkerCount int           `env:"WORKER_COUNT"` // default: runtime.NumCPU()
	QueueSize   int           `env:"QUEUE_SIZE"`   // max queued encodes before ErrQueueFull
	JobTimeout  time.Duration `env:"JOB_TIMEOUT"`  // 0 = no timeout

	// Streaming / memory limits.
	MaxImageBytes int64 `env:"MAX_IMAGE_BYTES"` // 0 = no limit
	ChunkSize     int   `env:"CHUNK_SIZE"`      // read chunk size in bytes; default 32 KiB

	// SniffContentType fills in the MIME type from the image bytes when the
	// source does not declare one.
	SniffContentType bool `env:"SNIFF_CONTENT_TYPE"`

	// MaxIDAttempts bounds id regeneration when a candidate was already issued.
	MaxIDAttempts int `env:"MAX_ID_ATTEMPTS"`

	// ExportDir is the root directory for the local export sink.
	ExportDir string `env:"EXPORT_DIR"`

	LogLevel string `env:"LOG_LEVEL"` // "debug", "info", "warn", "error"
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		WorkerCount:      0, // resolved at runtime to NumCPU
		QueueSize:        64,
		JobTimeout:       30 * time.Second,
		ChunkSize:        32 * 1024,
		SniffContentType: true,
		MaxIDAttempts:    8,
		ExportDir:        "./exports",
		LogLevel:         "info",
	}
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.ChunkSize <= 0 {
		return errors.New("config: ChunkSize must be positive")
	}
	if c.QueueSize < 0 {
		return errors.New("config: QueueSize must not be negative")
	}
	if c.WorkerCount < 0 {
		return errors.New("config: WorkerCount must not be negative")
	}
	if c.MaxImageBytes < 0 {
		return errors.New("config: MaxImageBytes must not be negative")
	}
	if c.MaxIDAttempts < 1 {
		return errors.New("config: MaxIDAttempts must be at least 1")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown LogLevel %q", c.LogLevel)
	}
	return nil
}

// FromEnv loads .env (if present) and overlays IMAGEBOX_* environment
// variables on top of Default().
func FromEnv() (Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := Default()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "IMAGEBOX_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
