// Package config loads the salonsite configuration file.
//
// Loading runs in a fixed order: .env files, YAML with ${VAR} expansion,
// environment overrides, normalization of enumerations, defaults, validation.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// Version is the configuration format version this build understands.
const Version = "1.0"

// Config is the root of the configuration file.
type Config struct {
	Version string        `yaml:"version"`
	Server  ServerConfig  `yaml:"server"`
	Content ContentConfig `yaml:"content"`
	NATS    NATSConfig    `yaml:"nats"`
	History HistoryConfig `yaml:"history"`
	Events  EventsConfig  `yaml:"events"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// SiteDir overrides the embedded pages and assets when set.
	SiteDir           string        `yaml:"site_dir"`
	NotFound          NotFoundMode  `yaml:"not_found"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// ContentConfig selects and configures the content store backend.
type ContentConfig struct {
	Backend    Backend `yaml:"backend"`
	Key        string  `yaml:"key"`
	File       string  `yaml:"file"`
	SQLitePath string  `yaml:"sqlite_path"`
	RemoteURL  string  `yaml:"remote_url"`
	// Watch pushes external edits of the content file to the preview.
	Watch bool        `yaml:"watch"`
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig bounds retries of saves that failed for a transient reason, such
// as an unreachable remote server or NATS timeout.
type RetryConfig struct {
	Backoff RetryBackoffMode `yaml:"backoff"`
	Initial time.Duration    `yaml:"initial"`
	Max     time.Duration    `yaml:"max"`
	// Attempts counts the first try; 1 disables retries.
	Attempts int `yaml:"attempts"`
}

// NATSConfig is shared by the nats content backend and the preview transport.
type NATSConfig struct {
	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`
	// Preview publishes preview messages on PreviewSubject so every instance sees them.
	Preview        bool   `yaml:"preview"`
	PreviewSubject string `yaml:"preview_subject"`
}

// HistoryConfig configures the git content history.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dir         string `yaml:"dir"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// EventsConfig configures the audit event log.
type EventsConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Path          string        `yaml:"path"`
	Retention     time.Duration `yaml:"retention"`
	PruneInterval time.Duration `yaml:"prune_interval"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Version: Version}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path. An empty path yields the defaults with
// environment overrides applied.
func Load(path string) (*Config, error) {
	loadEnvFile()

	cfg := &Config{Version: Version}
	if path != "" {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithContext("path", path).Build()
		}
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "read configuration file").
				Fatal().WithContext("path", path).Build()
		}
		cfg, err = Parse(data)
		if err != nil {
			return nil, err
		}
	} else {
		applyEnvOverrides(cfg)
		normalize(cfg)
		applyDefaults(cfg)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration, expanding ${VAR} references first. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parse configuration").Fatal().Build()
	}
	if cfg.Version == "" {
		cfg.Version = Version
	}
	if cfg.Version != Version {
		return nil, errors.ConfigError("unsupported configuration version").
			WithContext("version", cfg.Version).
			WithContext("expected", Version).
			Build()
	}
	applyEnvOverrides(&cfg)
	normalize(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).Build()
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "encode example configuration").Build()
	}
	header := "# salonsite configuration\n# Values may reference the environment as ${VAR}.\n"
	if err := os.WriteFile(path, append([]byte(header), data...), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write configuration file").
			WithContext("path", path).Build()
	}
	return nil
}
