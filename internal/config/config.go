// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptotoken.
//
// go-cryptotoken is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete provider configuration
type Config struct {
	Token   TokenConfig   `yaml:"token"`
	Backend BackendConfig `yaml:"backend"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

// TokenConfig identifies the token presented to the host
type TokenConfig struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// BackendConfig contains the remote signing backend connection settings
type BackendConfig struct {
	Address        string    `yaml:"address"`
	TimeoutSeconds int       `yaml:"timeout_seconds"`
	APIKey         string    `yaml:"api_key,omitempty"`
	TLS            TLSConfig `yaml:"tls"`
}

// TLSConfig controls TLS settings for the backend channel
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
	CertFile           string `yaml:"cert_file"`
	KeyFile            string `yaml:"key_file"`
	CAFile             string `yaml:"ca_file"`
}

// StoreConfig controls the key metadata store
type StoreConfig struct {
	Backend string `yaml:"backend"` // memory, file
	Path    string `yaml:"path"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Token: TokenConfig{
			ID:    "cryptotoken",
			Label: "Crypto Token",
		},
		Backend: BackendConfig{
			Address:        "https://localhost:8443",
			TimeoutSeconds: 30,
		},
		Store: StoreConfig{
			Backend: "memory",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file and applies environment variable overrides
func Load(path string) (*Config, error) {
	// #nosec G304 - Config file path is provided by admin/user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration
func applyEnvOverrides(cfg *Config) {
	if id := os.Getenv("CRYPTOTOKEN_ID"); id != "" {
		cfg.Token.ID = id
	}
	if label := os.Getenv("CRYPTOTOKEN_LABEL"); label != "" {
		cfg.Token.Label = label
	}
	if addr := os.Getenv("CRYPTOTOKEN_BACKEND_ADDRESS"); addr != "" {
		cfg.Backend.Address = addr
	}
	if timeout := os.Getenv("CRYPTOTOKEN_BACKEND_TIMEOUT"); timeout != "" {
		seconds, err := strconv.Atoi(timeout)
		if err != nil {
			log.Printf("Warning: invalid CRYPTOTOKEN_BACKEND_TIMEOUT value %q, using default %d: %v",
				timeout, cfg.Backend.TimeoutSeconds, err)
		} else if seconds < 1 {
			log.Printf("Warning: invalid CRYPTOTOKEN_BACKEND_TIMEOUT value %q (must be positive), using default %d",
				timeout, cfg.Backend.TimeoutSeconds)
		} else {
			cfg.Backend.TimeoutSeconds = seconds
		}
	}
	if apiKey := os.Getenv("CRYPTOTOKEN_API_KEY"); apiKey != "" {
		cfg.Backend.APIKey = apiKey
	}
	if storeBackend := os.Getenv("CRYPTOTOKEN_STORE_BACKEND"); storeBackend != "" {
		cfg.Store.Backend = storeBackend
	}
	if storePath := os.Getenv("CRYPTOTOKEN_STORE_PATH"); storePath != "" {
		cfg.Store.Path = storePath
	}
	if level := os.Getenv("CRYPTOTOKEN_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Token.ID == "" {
		return fmt.Errorf("token id must be specified")
	}

	if c.Backend.Address == "" {
		return fmt.Errorf("backend address must be specified")
	}
	if c.Backend.TimeoutSeconds < 1 {
		return fmt.Errorf("backend timeout must be positive, got %d", c.Backend.TimeoutSeconds)
	}

	if c.Backend.TLS.Enabled {
		// mTLS client certs come in pairs
		if (c.Backend.TLS.CertFile == "") != (c.Backend.TLS.KeyFile == "") {
			return fmt.Errorf("TLS cert_file and key_file must be specified together")
		}
	}

	switch strings.ToLower(c.Store.Backend) {
	case "memory":
	case "file":
		if c.Store.Path == "" {
			return fmt.Errorf("store path is required for the file backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be memory or file)", c.Store.Backend)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	return nil
}

// Debug reports whether debug logging is requested.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.Logging.Level, "debug")
}
