package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/spotter/pkg/database"
	"github.com/JaimeStill/spotter/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvSpotterEnv             = "SPOTTER_ENV"
	EnvSpotterShutdownTimeout = "SPOTTER_SHUTDOWN_TIMEOUT"
	EnvSpotterVersion         = "SPOTTER_VERSION"
)

var databaseEnv = &database.Env{
	Host:             "DB_HOST",
	Port:             "DB_PORT",
	Name:             "DB_NAME",
	User:             "DB_USER",
	Password:         "DB_PASSWORD",
	SSLMode:          "DB_SSL_MODE",
	MaxOpenConns:     "DB_MAX_OPEN_CONNS",
	MaxIdleConns:     "DB_MAX_IDLE_CONNS",
	ConnMaxLifetime:  "DB_CONN_MAX_LIFETIME",
	ConnTimeout:      "DB_CONN_TIMEOUT",
	StatementTimeout: "DB_STATEMENT_TIMEOUT",
}

var storageEnv = &storage.Env{
	Backend:          "SPOTTER_STORAGE_BACKEND",
	Root:             "SPOTTER_DATA_LAKE_PATH",
	ContainerName:    "SPOTTER_STORAGE_CONTAINER_NAME",
	ConnectionString: "SPOTTER_STORAGE_CONNECTION_STRING",
	MaxListSize:      "SPOTTER_STORAGE_MAX_LIST_SIZE",
}

// Config is the root configuration for a detection run.
type Config struct {
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	Model           ModelConfig     `toml:"model"`
	Scanner         ScannerConfig   `toml:"scanner"`
	Log             LogConfig       `toml:"log"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the SPOTTER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSpotterEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load populates the process environment from .env (if present), reads the
// base config (if present), applies any environment overlay, and finalizes
// all values. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Model.Merge(&overlay.Model)
	c.Scanner.Merge(&overlay.Scanner)
	c.Log.Merge(&overlay.Log)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Model.Finalize(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Scanner.Finalize(); err != nil {
		return fmt.Errorf("scanner: %w", err)
	}
	if err := c.Log.Finalize(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvSpotterShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvSpotterVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvSpotterEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
