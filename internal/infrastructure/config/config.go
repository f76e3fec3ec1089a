package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/smart-trailer/internal/digitaltwin"
)

// Config is the root configuration structure for the smart trailer consumer.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Registry     RegistryConfig     `yaml:"registry"`
	Entity       EntityConfig       `yaml:"entity"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	Stream       StreamConfig       `yaml:"stream"`
	InfluxDB     InfluxDBConfig     `yaml:"influxdb"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// RegistryConfig locates the service registry and names the digital twin
// service to resolve through it.
type RegistryConfig struct {
	// Address of the registry, e.g. "http://0.0.0.0:50000". May be empty
	// when MDNS is enabled.
	Address string `yaml:"address"`

	Namespace              string `yaml:"namespace"`
	Name                   string `yaml:"name"`
	Version                string `yaml:"version"`
	CommunicationKind      string `yaml:"communication_kind"`
	CommunicationReference string `yaml:"communication_reference"`

	MDNS MDNSConfig `yaml:"mdns"`
}

// MDNSConfig controls browsing for the registry when no address is set.
type MDNSConfig struct {
	Enabled bool          `yaml:"enabled"`
	Service string        `yaml:"service"`
	Domain  string        `yaml:"domain"`
	Timeout time.Duration `yaml:"timeout"`
}

// EntityConfig describes the entity and endpoint capabilities to look up.
type EntityConfig struct {
	ID         string      `yaml:"id"`
	Protocol   string      `yaml:"protocol"`
	Operations []string    `yaml:"operations"`
	Retry      RetryConfig `yaml:"retry"`
}

// RetryConfig bounds entity resolution retries.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	Interval   time.Duration `yaml:"interval"`
}

// SubscriptionConfig holds the constraints sent during negotiation.
type SubscriptionConfig struct {
	FrequencyMS int `yaml:"frequency_ms"`

	// Constraints are appended after the frequency constraint, unmodified.
	Constraints []digitaltwin.Constraint `yaml:"constraints"`
}

// StreamConfig contains pub/sub consumer settings.
type StreamConfig struct {
	ClientIDPrefix string        `yaml:"client_id_prefix"`
	KeepAlive      time.Duration `yaml:"keep_alive"`
	CleanSession   bool          `yaml:"clean_session"`
	QoS            int           `yaml:"qos"`
	BufferSize     int           `yaml:"buffer_size"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	Will           WillConfig    `yaml:"will"`
}

// WillConfig is the last will registered at connect.
type WillConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Topic    string `yaml:"topic"`
	Payload  string `yaml:"payload"`
	QoS      int    `yaml:"qos"`
	Retained bool   `yaml:"retained"`
}

// InfluxDBConfig contains InfluxDB connection settings for the delivery sink.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	Measurement   string `yaml:"measurement"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// MetricsConfig contains Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Path    string `yaml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SMARTTRAILER_SECTION_KEY
// For example: SMARTTRAILER_REGISTRY_ADDRESS, SMARTTRAILER_LOG_LEVEL
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			Address:                "http://0.0.0.0:50000",
			Namespace:              digitaltwin.InVehicleDigitalTwinNamespace,
			Name:                   digitaltwin.InVehicleDigitalTwinName,
			Version:                digitaltwin.InVehicleDigitalTwinVersion,
			CommunicationKind:      digitaltwin.InVehicleDigitalTwinCommunicationKind,
			CommunicationReference: digitaltwin.InVehicleDigitalTwinCommunicationReference,
			MDNS: MDNSConfig{
				Service: "_chariott._tcp",
				Domain:  "local.",
				Timeout: 5 * time.Second,
			},
		},
		Entity: EntityConfig{
			ID:         digitaltwin.TrailerWeight.ID,
			Protocol:   digitaltwin.ProtocolGRPC,
			Operations: []string{digitaltwin.OperationManagedSubscribe},
			Retry: RetryConfig{
				MaxRetries: 10,
				Interval:   5 * time.Second,
			},
		},
		Subscription: SubscriptionConfig{
			FrequencyMS: int(digitaltwin.DefaultFrequency / time.Millisecond),
		},
		Stream: StreamConfig{
			ClientIDPrefix: "smart-trailer-consumer",
			KeepAlive:      30 * time.Second,
			CleanSession:   false,
			QoS:            1,
			BufferSize:     64,
			ConnectTimeout: 10 * time.Second,
			Will: WillConfig{
				Enabled: true,
				Topic:   "test",
				Payload: "Receiver lost connection",
			},
		},
		InfluxDB: InfluxDBConfig{
			Measurement:   "trailer_deliveries",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Metrics: MetricsConfig{
			Address: ":9090",
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: SMARTTRAILER_SECTION_KEY
func applyEnvOverrides(cfg *Config) error {
	// Registry
	if v := os.Getenv("SMARTTRAILER_REGISTRY_ADDRESS"); v != "" {
		cfg.Registry.Address = v
	}
	if v := os.Getenv("SMARTTRAILER_REGISTRY_MDNS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SMARTTRAILER_REGISTRY_MDNS: %w", err)
		}
		cfg.Registry.MDNS.Enabled = b
	}

	// Entity
	if v := os.Getenv("SMARTTRAILER_ENTITY_ID"); v != "" {
		cfg.Entity.ID = v
	}

	// Subscription
	if v := os.Getenv("SMARTTRAILER_SUBSCRIPTION_FREQUENCY_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SMARTTRAILER_SUBSCRIPTION_FREQUENCY_MS: %w", err)
		}
		cfg.Subscription.FrequencyMS = n
	}

	// Stream
	if v := os.Getenv("SMARTTRAILER_STREAM_CLIENT_ID_PREFIX"); v != "" {
		cfg.Stream.ClientIDPrefix = v
	}

	// InfluxDB
	if v := os.Getenv("SMARTTRAILER_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("SMARTTRAILER_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Metrics
	if v := os.Getenv("SMARTTRAILER_METRICS_ADDRESS"); v != "" {
		cfg.Metrics.Address = v
	}

	// Logging
	if v := os.Getenv("SMARTTRAILER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return nil
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Registry
	if c.Registry.Address == "" && !c.Registry.MDNS.Enabled {
		errs = append(errs, "registry.address is required unless registry.mdns.enabled is set")
	}
	if c.Registry.Namespace == "" || c.Registry.Name == "" || c.Registry.Version == "" {
		errs = append(errs, "registry.namespace, registry.name and registry.version are required")
	}
	if c.Registry.MDNS.Enabled && c.Registry.MDNS.Service == "" {
		errs = append(errs, "registry.mdns.service is required when mdns is enabled")
	}

	// Entity
	if c.Entity.ID == "" {
		errs = append(errs, "entity.id is required")
	}
	if c.Entity.Protocol == "" {
		errs = append(errs, "entity.protocol is required")
	}
	if c.Entity.Retry.MaxRetries < 0 {
		errs = append(errs, "entity.retry.max_retries must not be negative")
	}
	if c.Entity.Retry.Interval < 0 {
		errs = append(errs, "entity.retry.interval must not be negative")
	}

	// Subscription
	if c.Subscription.FrequencyMS <= 0 {
		errs = append(errs, "subscription.frequency_ms must be positive")
	}

	// Stream
	if c.Stream.QoS < 0 || c.Stream.QoS > 2 {
		errs = append(errs, "stream.qos must be 0, 1, or 2")
	}
	if c.Stream.KeepAlive < 0 {
		errs = append(errs, "stream.keep_alive must not be negative")
	}
	if c.Stream.BufferSize < 0 {
		errs = append(errs, "stream.buffer_size must not be negative")
	}
	if c.Stream.Will.Enabled {
		if c.Stream.Will.Topic == "" {
			errs = append(errs, "stream.will.topic is required when the will is enabled")
		}
		if c.Stream.Will.QoS < 0 || c.Stream.Will.QoS > 2 {
			errs = append(errs, "stream.will.qos must be 0, 1, or 2")
		}
	}

	// InfluxDB
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Org == "" || c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.org and influxdb.bucket are required when influxdb is enabled")
		}
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		errs = append(errs, "metrics.address is required when metrics are enabled")
	}

	// Logging
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q is not one of json, text", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// Frequency returns subscription.frequency_ms as a Duration.
func (c *Config) Frequency() time.Duration {
	return time.Duration(c.Subscription.FrequencyMS) * time.Millisecond
}
