package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all FAR desk configuration.
type Config struct {
	// Store selects where claim records live
	Store StoreConfig `yaml:"store"`

	// Workflow tunes verification and cancellation
	Workflow WorkflowConfig `yaml:"workflow"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Prometheus exporter
	Metrics MetricsConfig `yaml:"metrics"`
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// ValidDrivers lists all supported store drivers.
var ValidDrivers = []string{DriverMemory, DriverSQLite, DriverPostgres, DriverFile}

// StoreConfig configures the claim store.
type StoreConfig struct {
	Driver  string `yaml:"driver"`  // memory, sqlite, postgres, file
	Path    string `yaml:"path"`    // sqlite database file
	DSN     string `yaml:"dsn"`     // postgres connection string
	File    string `yaml:"file"`    // YAML claims file
	Watch   bool   `yaml:"watch"`   // reload the desk when File changes
	Timeout string `yaml:"timeout"` // per-operation timeout
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty = disabled
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver:  DriverSQLite,
			Path:    filepath.Join(".far", "claims.db"),
			File:    filepath.Join(".far", "claims.yaml"),
			Watch:   true,
			Timeout: "5s",
		},
		Workflow: WorkflowConfig{
			VerifyDelay:   "1500ms",
			MinCodeLength: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   filepath.Join(".far", "far.log"),
		},
		UI: UIConfig{
			Theme:     "light",
			WrapWidth: 80,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FAR_STORE_DRIVER"); v != "" {
		c.Store.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("FAR_DB_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("FAR_PG_DSN"); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv("FAR_CLAIMS_FILE"); v != "" {
		c.Store.File = v
	}
	if v := os.Getenv("FAR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FAR_VERIFY_DELAY"); v != "" {
		// bare numbers are milliseconds
		if _, err := strconv.Atoi(v); err == nil {
			v += "ms"
		}
		c.Workflow.VerifyDelay = v
	}
	if v := os.Getenv("FAR_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

// GetStoreTimeout returns the per-operation store timeout.
func (c *Config) GetStoreTimeout() time.Duration {
	d, err := time.ParseDuration(c.Store.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validDriver := false
	for _, d := range ValidDrivers {
		if c.Store.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("invalid store driver: %s (valid: %v)", c.Store.Driver, ValidDrivers)
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("sqlite store requires store.path (or FAR_DB_PATH)")
		}
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("postgres store requires store.dsn (or FAR_PG_DSN)")
		}
	case DriverFile:
		if c.Store.File == "" {
			return fmt.Errorf("file store requires store.file (or FAR_CLAIMS_FILE)")
		}
	}

	if c.Store.Timeout != "" {
		if _, err := time.ParseDuration(c.Store.Timeout); err != nil {
			return fmt.Errorf("invalid store.timeout %q: %w", c.Store.Timeout, err)
		}
	}
	if err := c.Workflow.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
