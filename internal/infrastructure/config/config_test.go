package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/smart-trailer/internal/digitaltwin"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.Registry.Address != "http://0.0.0.0:50000" {
		t.Errorf("Registry.Address = %q", cfg.Registry.Address)
	}
	if cfg.Entity.ID != digitaltwin.TrailerWeight.ID {
		t.Errorf("Entity.ID = %q", cfg.Entity.ID)
	}
	if cfg.Entity.Retry.MaxRetries != 10 || cfg.Entity.Retry.Interval != 5*time.Second {
		t.Errorf("Entity.Retry = %+v, want 10 retries at 5s", cfg.Entity.Retry)
	}
	if cfg.Frequency() != 10*time.Second {
		t.Errorf("Frequency() = %v, want 10s", cfg.Frequency())
	}
	if cfg.Stream.KeepAlive != 30*time.Second || cfg.Stream.CleanSession || cfg.Stream.QoS != 1 {
		t.Errorf("Stream = %+v", cfg.Stream)
	}
	if !cfg.Stream.Will.Enabled || cfg.Stream.Will.Topic != "test" || cfg.Stream.Will.Payload != "Receiver lost connection" {
		t.Errorf("Stream.Will = %+v", cfg.Stream.Will)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
registry:
  address: "http://10.0.0.5:50000"
entity:
  retry:
    max_retries: 3
    interval: 250ms
subscription:
  frequency_ms: 3000
  constraints:
    - type: "region"
      value: "eu"
stream:
  keep_alive: 45s
  qos: 2
metrics:
  enabled: true
  address: "127.0.0.1:9100"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Registry.Address != "http://10.0.0.5:50000" {
		t.Errorf("Registry.Address = %q", cfg.Registry.Address)
	}
	if cfg.Entity.Retry.MaxRetries != 3 || cfg.Entity.Retry.Interval != 250*time.Millisecond {
		t.Errorf("Entity.Retry = %+v", cfg.Entity.Retry)
	}
	if cfg.Subscription.FrequencyMS != 3000 {
		t.Errorf("Subscription.FrequencyMS = %d", cfg.Subscription.FrequencyMS)
	}
	if len(cfg.Subscription.Constraints) != 1 || cfg.Subscription.Constraints[0] != (digitaltwin.Constraint{Type: "region", Value: "eu"}) {
		t.Errorf("Subscription.Constraints = %+v", cfg.Subscription.Constraints)
	}
	if cfg.Stream.KeepAlive != 45*time.Second || cfg.Stream.QoS != 2 {
		t.Errorf("Stream = %+v", cfg.Stream)
	}
	// Unset fields keep defaults.
	if cfg.Entity.ID != digitaltwin.TrailerWeight.ID {
		t.Errorf("Entity.ID = %q, want default", cfg.Entity.ID)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Address != "127.0.0.1:9100" {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
subscription:
  frequency_ms: 0
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "subscription.frequency_ms") {
		t.Errorf("Load() error = %v, want frequency_ms validation error", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SMARTTRAILER_REGISTRY_ADDRESS", "http://registry:50000")
	t.Setenv("SMARTTRAILER_SUBSCRIPTION_FREQUENCY_MS", "500")
	t.Setenv("SMARTTRAILER_LOG_LEVEL", "debug")
	t.Setenv("SMARTTRAILER_STREAM_CLIENT_ID_PREFIX", "trailer-test")

	path := writeConfig(t, `
registry:
  address: "http://file:50000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Registry.Address != "http://registry:50000" {
		t.Errorf("Registry.Address = %q, env should override file", cfg.Registry.Address)
	}
	if cfg.Subscription.FrequencyMS != 500 {
		t.Errorf("FrequencyMS = %d, want 500", cfg.Subscription.FrequencyMS)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Stream.ClientIDPrefix != "trailer-test" {
		t.Errorf("ClientIDPrefix = %q", cfg.Stream.ClientIDPrefix)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	t.Setenv("SMARTTRAILER_SUBSCRIPTION_FREQUENCY_MS", "fast")

	if _, err := Load(""); err == nil {
		t.Error("Load() expected error for non-numeric frequency override")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{
			name:    "no registry address",
			mutate:  func(c *Config) { c.Registry.Address = "" },
			wantErr: "registry.address",
		},
		{
			name: "mdns replaces registry address",
			mutate: func(c *Config) {
				c.Registry.Address = ""
				c.Registry.MDNS.Enabled = true
			},
		},
		{
			name:    "missing entity id",
			mutate:  func(c *Config) { c.Entity.ID = "" },
			wantErr: "entity.id",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Entity.Retry.MaxRetries = -1 },
			wantErr: "max_retries",
		},
		{
			name:    "zero retries allowed",
			mutate:  func(c *Config) { c.Entity.Retry.MaxRetries = 0 },
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.Stream.QoS = 3 },
			wantErr: "stream.qos",
		},
		{
			name:    "will without topic",
			mutate:  func(c *Config) { c.Stream.Will.Topic = "" },
			wantErr: "stream.will.topic",
		},
		{
			name:    "influxdb enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: "influxdb.url",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Entity.ID = ""
	cfg.Stream.QoS = 5

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() error = nil")
	}
	for _, want := range []string{"entity.id", "stream.qos"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
