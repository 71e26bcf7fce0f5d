package config

import (
	"testing"
	"time"

	"github.com/marmos91/dsomm/pkg/state"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_ShutdownTimeout(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected default shutdown timeout 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestApplyDefaults_API(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.API.Port != 8080 {
		t.Errorf("Expected default API port 8080, got %d", cfg.API.Port)
	}
	if cfg.API.ReadTimeout != 10*time.Second {
		t.Errorf("Expected default read timeout 10s, got %v", cfg.API.ReadTimeout)
	}
	if cfg.API.RequestTimeout != 30*time.Second {
		t.Errorf("Expected default request timeout 30s, got %v", cfg.API.RequestTimeout)
	}
	if cfg.API.JWT.Issuer != "dsomm" {
		t.Errorf("Expected default issuer 'dsomm', got %q", cfg.API.JWT.Issuer)
	}
	if cfg.API.JWT.TokenDuration != 24*time.Hour {
		t.Errorf("Expected default token duration 24h, got %v", cfg.API.JWT.TokenDuration)
	}
}

func TestApplyDefaults_Telemetry(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Telemetry.Endpoint != "localhost:4317" {
		t.Errorf("Expected default endpoint, got %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("Expected default sample rate 1.0, got %v", cfg.Telemetry.SampleRate)
	}
	if len(cfg.Telemetry.Profiling.ProfileTypes) == 0 {
		t.Error("Expected default profile types")
	}
}

func TestApplyDefaults_Data(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Data.Source != SourceFS || cfg.Data.Path != "./data" {
		t.Errorf("Expected fs source at ./data, got %q at %q", cfg.Data.Source, cfg.Data.Path)
	}

	s3 := &Config{Data: DataConfig{Source: SourceS3}}
	ApplyDefaults(s3)
	if s3.Data.Path != "" {
		t.Errorf("Expected no path default for s3, got %q", s3.Data.Path)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging:         LoggingConfig{Level: "debug", Format: "json"},
		ShutdownTimeout: 5 * time.Second,
		Database:        state.Config{Type: state.DatabaseTypeBadger},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cfg.Logging.Format)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected shutdown timeout 5s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Database.Type != state.DatabaseTypeBadger {
		t.Errorf("Expected badger state store, got %q", cfg.Database.Type)
	}
}
