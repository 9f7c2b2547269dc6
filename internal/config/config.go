// Package config holds the runtime's environment-driven settings
package config

import (
	"errors"
	"fmt"
	"os"
)

// Config holds configuration settings for the automation runtime
type Config struct {
	// Discovery
	EngineDir string
	ActionDir string

	// Diagnostics
	LogLevel string
}

const (
	DefaultEngineDir = "engines"
	DefaultActionDir = "actions"
	DefaultLogLevel  = "info"
)

var (
	ErrMissingEngineDir = errors.New("engine directory must be set")
	ErrMissingActionDir = errors.New("action directory must be set")
	ErrInvalidLogLevel  = errors.New("invalid log level")
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// NewDefaultConfig creates a configuration with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		EngineDir: DefaultEngineDir,
		ActionDir: DefaultActionDir,
		LogLevel:  DefaultLogLevel,
	}
}

// LoadFromEnv populates configuration values from environment variables
func (c *Config) LoadFromEnv() {
	if engineDir := os.Getenv("VF_ENGINE_DIR"); engineDir != "" {
		c.EngineDir = engineDir
	}
	if actionDir := os.Getenv("VF_ACTION_DIR"); actionDir != "" {
		c.ActionDir = actionDir
	}
	if logLevel := os.Getenv("VF_LOG_LEVEL"); logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.EngineDir == "" {
		return ErrMissingEngineDir
	}
	if c.ActionDir == "" {
		return ErrMissingActionDir
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}
