// Package config holds the settings of an ordered-key store.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"sigs.k8s.io/yaml"
)

// Common errors returned by Validate.
var (
	ErrExpectedKeys = errors.New("expectedKeys must be positive")
	ErrBloomBits    = errors.New("bloomBitsPerKey must be positive")
	ErrLogFormat    = errors.New("logFormat must be \"text\" or \"json\"")
)

// Config holds configuration options for a store.
type Config struct {
	// Number of keys the bloom filter is sized for
	ExpectedKeys int `json:"expectedKeys"`

	// Number of bits per key for the bloom filter (higher = lower false positive rate)
	BloomBitsPerKey int `json:"bloomBitsPerKey"`

	// Whether to check every tree invariant after each write (slow, O(n) per write)
	VerifyWrites bool `json:"verifyWrites"`

	// logrus level name: panic, fatal, error, warn, info, debug, trace
	LogLevel string `json:"logLevel"`

	// "text" or "json"
	LogFormat string `json:"logFormat"`
}

// DefaultConfig returns a default store configuration.
func DefaultConfig() *Config {
	return &Config{
		ExpectedKeys:    1 << 16,
		BloomBitsPerKey: 10,
		VerifyWrites:    false,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads a YAML file over the defaults and validates the result.
// Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings a store cannot run with.
func (c *Config) Validate() error {
	if c.ExpectedKeys <= 0 {
		return fmt.Errorf("invalid config: %w", ErrExpectedKeys)
	}
	if c.BloomBitsPerKey <= 0 {
		return fmt.Errorf("invalid config: %w", ErrBloomBits)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid config: %w", ErrLogFormat)
	}
	return nil
}
