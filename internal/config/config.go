// Package config loads sheetflat settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix for all settings.
const Prefix = "SHEETFLAT"

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `envconfig:"SERVER"`
	Logging LoggingConfig `envconfig:"LOGGING"`
	Engine  EngineConfig  `envconfig:"ENGINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr           string        `envconfig:"ADDR" default:":8080" validate:"required"`
	ReadTimeout    time.Duration `envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout   time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	IdleTimeout    time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"33554432" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format string `envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
}

// EngineConfig contains flattening defaults
type EngineConfig struct {
	MatchCutoff float64 `envconfig:"MATCH_CUTOFF" default:"0.4" validate:"gt=0,lte=1"`
	KeepPartial bool    `envconfig:"KEEP_PARTIAL" default:"false"`
	Synonyms    bool    `envconfig:"SYNONYMS" default:"false"`
	Workers     int     `envconfig:"WORKERS" default:"4" validate:"min=1"`
}

// Load reads an optional .env file, then environment variables, and
// validates the result.
func Load(envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// loadDotEnv loads the given files, or .env when none are given. Missing
// files are ignored; variables already set in the environment win.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

