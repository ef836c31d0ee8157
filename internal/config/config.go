// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "size-convert/internal/errors"
	"size-convert/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Database configures the measurement-range data source
	Database DatabaseConfig `json:"database" yaml:"database"`

	// Resolver contains size resolution settings
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`

	// Catalog configures the static brand catalog
	Catalog CatalogConfig `json:"catalog" yaml:"catalog"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// DatabaseConfig contains data source settings
type DatabaseConfig struct {
	// Driver is one of sqlite, postgres, mysql
	Driver string `json:"driver" yaml:"driver"`

	// DSN is the driver-specific connection string
	DSN string `json:"dsn" yaml:"dsn"`

	// MaxOpenConns limits the connection pool (0 = driver default)
	MaxOpenConns int `json:"max_open_conns" yaml:"max_open_conns"`

	// ProbeIntervalSeconds is how often reachability is checked
	ProbeIntervalSeconds int `json:"probe_interval_seconds" yaml:"probe_interval_seconds"`
}

// ResolverConfig contains size resolution settings
type ResolverConfig struct {
	// RemoteEnabled allows the data source tier to be attempted at all
	RemoteEnabled bool `json:"remote_enabled" yaml:"remote_enabled"`

	// RemoteTimeoutMs bounds the data source tier
	RemoteTimeoutMs int `json:"remote_timeout_ms" yaml:"remote_timeout_ms"`
}

// CatalogConfig contains static catalog settings
type CatalogConfig struct {
	// OverridePath is an optional HCL file merged over the bundled catalog
	OverridePath string `json:"override_path,omitempty" yaml:"override_path,omitempty"`

	// Watch reloads OverridePath when it changes
	Watch bool `json:"watch" yaml:"watch"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr                   string `json:"addr" yaml:"addr"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`

	// Compression gzips responses of at least CompressionMinSize bytes
	Compression        bool `json:"compression" yaml:"compression"`
	CompressionMinSize int  `json:"compression_min_size" yaml:"compression_min_size"`

	// RateLimitRPS limits requests per second across all clients (0 = unlimited)
	RateLimitRPS   float64 `json:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst int     `json:"rate_limit_burst" yaml:"rate_limit_burst"`
}

// RemoteTimeout returns the data source tier timeout
func (c ResolverConfig) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutMs) * time.Millisecond
}

// ProbeInterval returns the reachability probe interval
func (c DatabaseConfig) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".size-convert", "sizes.db")

	return &Config{
		Version: "1.0",
		Database: DatabaseConfig{
			Driver:               "sqlite",
			DSN:                  dbPath,
			ProbeIntervalSeconds: 15,
		},
		Resolver: ResolverConfig{
			RemoteEnabled:   true,
			RemoteTimeoutMs: 2000,
		},
		Server: ServerConfig{
			Addr:                   ":8080",
			ShutdownTimeoutSeconds: 10,
			Compression:            true,
			CompressionMinSize:     1024,
			RateLimitRPS:           50,
			RateLimitBurst:         100,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. YAML is used for .yaml/.yml files, JSON otherwise.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, apperrors.Config("read config", err)
	}

	config := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, apperrors.Config("parse "+path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return apperrors.Newf(apperrors.TypeConfig, "unsupported database driver %q", c.Database.Driver)
	}
	if c.Resolver.RemoteTimeoutMs <= 0 {
		return apperrors.New(apperrors.TypeConfig, "resolver.remote_timeout_ms must be positive")
	}
	if c.Server.RateLimitRPS < 0 || (c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst <= 0) {
		return apperrors.New(apperrors.TypeConfig, "server.rate_limit_burst must be positive when rate limiting is enabled")
	}
	if c.Database.ProbeIntervalSeconds <= 0 {
		return apperrors.New(apperrors.TypeConfig, "database.probe_interval_seconds must be positive")
	}
	return nil
}

// Save saves configuration to a file in the format implied by its extension
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := c.Marshal(isYAML(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders the configuration as YAML or indented JSON
func (c *Config) Marshal(asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(c)
	}
	return json.MarshalIndent(c, "", "  ")
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
