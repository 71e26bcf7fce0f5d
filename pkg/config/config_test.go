package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marmos91/dsomm/pkg/state"
)

// yamlSafePath converts a filesystem path to a YAML-safe representation.
// On Windows, backslashes in double-quoted YAML strings are interpreted as
// escape sequences (e.g. \U -> Unicode escape), causing parse errors.
func yamlSafePath(p string) string {
	return filepath.ToSlash(p)
}

func TestLoad_DefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "info"

database:
  type: sqlite
  sqlite:
    path: "` + yamlSafePath(tmpDir) + `/state.db"

data:
  path: "` + yamlSafePath(tmpDir) + `/data"
  watch: true

api:
  port: 9000
  jwt:
    secret: "test-secret-key-for-testing-minimum-32-chars"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected normalized level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown_timeout 30s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("Expected API port 9000, got %d", cfg.API.Port)
	}
	if cfg.Data.Source != SourceFS {
		t.Errorf("Expected default data source 'fs', got %q", cfg.Data.Source)
	}
	if cfg.Data.MetaFile != "meta.yaml" {
		t.Errorf("Expected default meta file, got %q", cfg.Data.MetaFile)
	}
	if !cfg.Data.Watch || cfg.Data.WatchDebounce != 500*time.Millisecond {
		t.Errorf("Expected watch with 500ms debounce, got %v/%v", cfg.Data.Watch, cfg.Data.WatchDebounce)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Loading with no config file returns a valid default config.
	nonExistentPath := filepath.Join(t.TempDir(), "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}
	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.Database.Type != state.DatabaseTypeSQLite {
		t.Errorf("Expected default sqlite state store, got %q", cfg.Database.Type)
	}
}

func TestLoad_DurationStrings(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
shutdown_timeout: 45s
api:
  read_timeout: 2m
  jwt:
    token_duration: 1h
data:
  path: ./data
  watch_debounce: 2s
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ShutdownTimeout != 45*time.Second {
		t.Errorf("Expected 45s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.API.ReadTimeout != 2*time.Minute {
		t.Errorf("Expected 2m, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.JWT.TokenDuration != time.Hour {
		t.Errorf("Expected 1h, got %v", cfg.API.JWT.TokenDuration)
	}
	if cfg.Data.WatchDebounce != 2*time.Second {
		t.Errorf("Expected 2s, got %v", cfg.Data.WatchDebounce)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("logging:\n  level: INFO\ndata:\n  path: ./data\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("DSOMM_LOGGING_LEVEL", "debug")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected env override 'DEBUG', got %q", cfg.Logging.Level)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("data:\n  source: ftp\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected validation error for unknown data source")
	}
}

func TestMustLoad_MissingFile(t *testing.T) {
	_, err := MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.API.Port = 9999
	cfg.Data.Path = "/srv/dsomm"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 && os.PathSeparator == '/' {
		t.Errorf("Expected 0600 permissions, got %v", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("Expected API port 9999, got %d", loaded.API.Port)
	}
	if loaded.Data.Path != "/srv/dsomm" {
		t.Errorf("Expected data path /srv/dsomm, got %q", loaded.Data.Path)
	}
}
