// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ersonp/universe-core/internal/log"
)

const (
	// DefaultConfigDir is the directory name for universe configuration.
	DefaultConfigDir = ".universe"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDBFile is the default SQLite database file name.
	DefaultDBFile = "universe.db"
	// DefaultLogFile is the default log file name.
	DefaultLogFile = "universe.log"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Database DatabaseConfig `yaml:"database,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Factory  FactoryConfig  `yaml:"factory,omitempty"`
	Log      LogConfig      `yaml:"log,omitempty"`
	Tracing  TracingConfig  `yaml:"tracing,omitempty"`
}

// DatabaseConfig selects the persistence backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite item database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	// Relative paths are resolved against the config directory.
	Path          string `yaml:"path,omitempty"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms,omitempty"`
}

// PostgresConfig holds configuration for the PostgreSQL item database.
type PostgresConfig struct {
	DSN             string        `yaml:"dsn,omitempty"`
	MaxOpenConns    int           `yaml:"max_open_conns,omitempty"`
	MaxIdleConns    int           `yaml:"max_idle_conns,omitempty"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime,omitempty"`
}

// CacheConfig controls the type catalog cache.
type CacheConfig struct {
	Disabled        bool          `yaml:"disabled,omitempty"`
	TypeTTL         time.Duration `yaml:"type_ttl,omitempty"`
	CleanupInterval time.Duration `yaml:"cleanup_interval,omitempty"`
}

// FactoryConfig controls item loading.
type FactoryConfig struct {
	// ShareLive keeps one live object per item id until it is released.
	ShareLive bool `yaml:"share_live,omitempty"`
	// MaxDepth bounds recursive contents loading.
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// LogConfig controls the diagnostics log.
type LogConfig struct {
	Path  string `yaml:"path,omitempty"`
	Level string `yaml:"level,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
	// Exporter is one of "none", "stdout", "otlp".
	Exporter     string  `yaml:"exporter,omitempty"`
	OTLPEndpoint string  `yaml:"otlp_endpoint,omitempty"`
	SampleRate   float64 `yaml:"sample_rate,omitempty"`
	ServiceName  string  `yaml:"service_name,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: DriverSQLite},
		SQLite: SQLiteConfig{
			Path:          DefaultDBFile,
			BusyTimeoutMS: 5000,
		},
		Postgres: PostgresConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Cache: CacheConfig{
			TypeTTL:         10 * time.Minute,
			CleanupInterval: 30 * time.Minute,
		},
		Factory: FactoryConfig{MaxDepth: 8},
		Log: LogConfig{
			Path:  DefaultLogFile,
			Level: "info",
		},
		Tracing: TracingConfig{
			Exporter:     "none",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "universe-core",
		},
	}
}

// Load loads configuration from the .universe directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'universe init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug(log.CatConfig, "config loaded", "path", configFile, "driver", cfg.Database.Driver)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("UNIVERSE_DB_DRIVER"); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("UNIVERSE_POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("UNIVERSE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks the values the rest of the program relies on.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres driver requires postgres.dsn (or UNIVERSE_POSTGRES_DSN)")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Factory.MaxDepth < 0 {
		return fmt.Errorf("factory.max_depth must not be negative, got %d", c.Factory.MaxDepth)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Tracing.Exporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unsupported tracing exporter: %q", c.Tracing.Exporter)
	}
	return nil
}

// ConfigDir returns the path to the .universe config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// SQLitePath returns the database path, resolving relative paths against the
// config directory.
func (c *Config) SQLitePath(basePath string) string {
	return c.resolve(basePath, c.SQLite.Path, DefaultDBFile)
}

// LogPath returns the log file path, resolving relative paths against the
// config directory.
func (c *Config) LogPath(basePath string) string {
	return c.resolve(basePath, c.Log.Path, DefaultLogFile)
}

func (c *Config) resolve(basePath, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ConfigDir(basePath), path)
}

// Exists checks if a universe config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}
