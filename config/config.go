// Package config loads server configuration from an optional YAML file
// with environment-variable overrides. The API key is a secret and should
// come from the environment; every other setting has a usable default.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	IntelX  IntelXConfig  `yaml:"intelx"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds MCP serving settings.
type ServerConfig struct {
	// Transport selects how MCP is served: stdio, http or sse.
	Transport string `yaml:"transport"`
	// Addr is the listen address for the http and sse transports.
	Addr string `yaml:"addr"`
}

// IntelXConfig holds upstream API settings.
type IntelXConfig struct {
	SearchRoot   string `yaml:"searchRoot"`
	IdentityRoot string `yaml:"identityRoot"`
	APIKey       string `yaml:"apiKey"`
	// RequestTimeout bounds each upstream HTTP request.
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	// CallInterval is the rate gate's minimum spacing per service root.
	CallInterval time.Duration `yaml:"callInterval"`
	// PollInterval is the delay between poll rounds of a search session.
	PollInterval time.Duration `yaml:"pollInterval"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the configuration used when no file and no environment
// overrides are present. The API key has no default.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Transport: "stdio",
			Addr:      ":8080",
		},
		IntelX: IntelXConfig{
			SearchRoot:     "https://2.intelx.io",
			IdentityRoot:   "https://3.intelx.io",
			RequestTimeout: 30 * time.Second,
			CallInterval:   time.Second,
			PollInterval:   time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http", "sse":
	default:
		return fmt.Errorf("invalid transport %q (want stdio, http or sse)", c.Server.Transport)
	}
	if c.IntelX.APIKey == "" {
		return fmt.Errorf("intelx api key is required (set INTELX_API_KEY)")
	}
	if c.IntelX.CallInterval <= 0 {
		return fmt.Errorf("call interval must be positive")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.Server.Transport, "INTELX_TRANSPORT")
	setString(&cfg.Server.Addr, "INTELX_ADDR")
	setString(&cfg.IntelX.SearchRoot, "INTELX_SEARCH_ROOT")
	setString(&cfg.IntelX.IdentityRoot, "INTELX_IDENTITY_ROOT")
	setString(&cfg.IntelX.APIKey, "INTELX_API_KEY")
	setDuration(&cfg.IntelX.RequestTimeout, "INTELX_REQUEST_TIMEOUT")
	setDuration(&cfg.IntelX.CallInterval, "INTELX_CALL_INTERVAL")
	setDuration(&cfg.IntelX.PollInterval, "INTELX_POLL_INTERVAL")
	setString(&cfg.Logging.Level, "INTELX_LOG_LEVEL")
	setBool(&cfg.Metrics.Enabled, "INTELX_METRICS_ENABLED")
	setString(&cfg.Metrics.Addr, "INTELX_METRICS_ADDR")
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func setDuration(target *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*target = d
		}
	}
}

func setBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			*target = b
		}
	}
}
