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

package cli

import (
	"fmt"
	"time"

	appconfig "github.com/jeremyhahn/go-cryptotoken/internal/config"
	"github.com/jeremyhahn/go-cryptotoken/pkg/backend"
	"github.com/jeremyhahn/go-cryptotoken/pkg/logging"
	"github.com/jeremyhahn/go-cryptotoken/pkg/store"
	"github.com/jeremyhahn/go-cryptotoken/pkg/token"
)

// Config holds global CLI configuration
type Config struct {
	// ConfigFile is the path to the configuration file
	ConfigFile string

	// BackendAddress overrides the configured backend address
	BackendAddress string

	// StorePath selects a file metadata store; empty means in-memory
	StorePath string

	// OutputFormat controls output formatting (json, text, table)
	OutputFormat string

	// Verbose enables verbose logging
	Verbose bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		OutputFormat: "text",
		Verbose:      false,
	}
}

// loadAppConfig resolves the effective provider configuration from the
// config file, environment, and CLI flag overrides.
func (c *Config) loadAppConfig() (*appconfig.Config, error) {
	cfg := appconfig.Default()
	if c.ConfigFile != "" {
		loaded, err := appconfig.Load(c.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if c.BackendAddress != "" {
		cfg.Backend.Address = c.BackendAddress
	}
	if c.StorePath != "" {
		cfg.Store.Backend = "file"
		cfg.Store.Path = c.StorePath
	}
	if c.Verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// CreateClient creates a backend client from the effective configuration
func (c *Config) CreateClient() (backend.Client, error) {
	cfg, err := c.loadAppConfig()
	if err != nil {
		return nil, err
	}
	return backend.NewRESTClient(&backend.Config{
		Address:               cfg.Backend.Address,
		Timeout:               time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		TLSEnabled:            cfg.Backend.TLS.Enabled,
		TLSInsecureSkipVerify: cfg.Backend.TLS.InsecureSkipVerify,
		TLSCertFile:           cfg.Backend.TLS.CertFile,
		TLSKeyFile:            cfg.Backend.TLS.KeyFile,
		TLSCAFile:             cfg.Backend.TLS.CAFile,
		APIKey:                cfg.Backend.APIKey,
	})
}

// CreateStore creates a metadata store from the effective configuration
func (c *Config) CreateStore() (store.MetadataStore, error) {
	cfg, err := c.loadAppConfig()
	if err != nil {
		return nil, err
	}
	switch cfg.Store.Backend {
	case "file":
		return store.NewFileStore(cfg.Store.Path)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

// CreateToken wires a token over a fresh backend client and metadata store.
// The caller owns the returned client and store and must close them.
func (c *Config) CreateToken() (*token.Token, backend.Client, store.MetadataStore, error) {
	cfg, err := c.loadAppConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	client, err := c.CreateClient()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	metaStore, err := c.CreateStore()
	if err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("failed to create metadata store: %w", err)
	}

	logger := logging.NewLogger(cfg.Debug())
	tok, err := token.New(cfg.Token.ID, cfg.Token.Label, client, metaStore, logger)
	if err != nil {
		_ = client.Close()
		_ = metaStore.Close()
		return nil, nil, nil, err
	}
	return tok, client, metaStore, nil
}
