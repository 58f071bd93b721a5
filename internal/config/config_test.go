package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// UNIFIED CONFIG TESTS
// =============================================================================

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FAR_STORE_DRIVER", "FAR_DB_PATH", "FAR_PG_DSN", "FAR_CLAIMS_FILE", "FAR_LOG_LEVEL", "FAR_VERIFY_DELAY", "FAR_METRICS_ADDR"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("expected Driver=sqlite, got %s", cfg.Store.Driver)
	}
	if cfg.Workflow.MinCodeLength != 3 {
		t.Errorf("expected MinCodeLength=3, got %d", cfg.Workflow.MinCodeLength)
	}
	if got := cfg.Workflow.GetVerifyDelay(); got != 1500*time.Millisecond {
		t.Errorf("expected VerifyDelay=1.5s, got %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Store.Driver = DriverPostgres
	cfg.Store.DSN = "postgres://far@localhost/far"
	cfg.Workflow.VerifyDelay = "250ms"
	cfg.Logging.Categories = map[string]bool{"desk": false}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Store.Driver != DriverPostgres {
		t.Errorf("expected Driver=postgres, got %s", loaded.Store.Driver)
	}
	if loaded.Store.DSN != "postgres://far@localhost/far" {
		t.Errorf("expected DSN to round-trip, got %s", loaded.Store.DSN)
	}
	if loaded.Workflow.GetVerifyDelay() != 250*time.Millisecond {
		t.Errorf("expected VerifyDelay=250ms, got %s", loaded.Workflow.VerifyDelay)
	}
	if loaded.Logging.IsCategoryEnabled("desk") {
		t.Error("expected desk category disabled")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("expected defaults, got driver %s", cfg.Store.Driver)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store:\n  driver: memory\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("expected Driver=memory, got %s", cfg.Store.Driver)
	}
	if cfg.Workflow.MinCodeLength != 3 {
		t.Errorf("expected default MinCodeLength, got %d", cfg.Workflow.MinCodeLength)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = DriverPostgres }},
		{"sqlite without path", func(c *Config) { c.Store.Path = "" }},
		{"file without file", func(c *Config) { c.Store.Driver = DriverFile; c.Store.File = "" }},
		{"bad timeout", func(c *Config) { c.Store.Timeout = "soon" }},
		{"bad delay", func(c *Config) { c.Workflow.VerifyDelay = "1.5 seconds" }},
		{"negative code length", func(c *Config) { c.Workflow.MinCodeLength = -1 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetStoreTimeout_Fallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Timeout = "nope"
	if got := cfg.GetStoreTimeout(); got != 5*time.Second {
		t.Errorf("expected fallback 5s, got %v", got)
	}
}
