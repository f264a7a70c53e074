package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// HTTPAddr is the listen address for the HTTP API.
	HTTPAddr string `json:"httpAddr" yaml:"httpAddr" validate:"required"`
	// DataDir overrides the OS-specific default data directory.
	DataDir string `json:"dataDir" yaml:"dataDir"`
	// Fsync selects the WAL durability mode: always, interval, or never.
	Fsync string `json:"fsync" yaml:"fsync" validate:"oneof=always interval never"`
	// FsyncIntervalMs applies when Fsync is "interval".
	FsyncIntervalMs int `json:"fsyncIntervalMs" yaml:"fsyncIntervalMs" validate:"gte=0"`
	// EscrowAccount holds streamed deposits until they are withdrawn.
	EscrowAccount string `json:"escrowAccount" yaml:"escrowAccount" validate:"required"`
	// EventTopic names the append-only lifecycle event log.
	EventTopic string `json:"eventTopic" yaml:"eventTopic" validate:"required"`
	Auth       Auth   `json:"auth" yaml:"auth"`
	Log        Log    `json:"log" yaml:"log"`
}

// Auth configures how mutating requests are authenticated.
type Auth struct {
	// Mode is "hmac" (per-principal shared secrets) or "allowall" (dev only).
	Mode string `json:"mode" yaml:"mode" validate:"oneof=hmac allowall"`
	// Keys maps principal -> hex-encoded HMAC secret. Required for hmac mode.
	Keys map[string]string `json:"keys" yaml:"keys" validate:"required_if=Mode hmac"`
}

// Log configures the process logger.
type Log struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		HTTPAddr:      ":8080",
		Fsync:         "always",
		EscrowAccount: "escrow",
		EventTopic:    "payments",
		Auth:          Auth{Mode: "allowall"},
		Log:           Log{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks the fully-layered configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
