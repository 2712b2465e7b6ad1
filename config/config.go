// Package config loads the reasoner configuration from an optional
// YAML/JSON file with environment variable overrides. The environment
// surface matches the deployment documentation: USE_MOCK_DB, DB_HOST,
// DB_PORT, DB_NAME, DB_USER, DB_PASSWORD, DB_MIN_CONNECTIONS,
// DB_MAX_CONNECTIONS and LOG_LEVEL, plus server and cache settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `json:"app"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Server   ServerConfig   `json:"server"`
	Logging  LoggingConfig  `json:"logging"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name            string        `json:"name"`
	Environment     string        `json:"environment"`
	Version         string        `json:"version"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings and the mock
// datastore switch.
type DatabaseConfig struct {
	// UseMock forces the in-memory datastore, skipping PostgreSQL
	// entirely. Mapped from USE_MOCK_DB.
	UseMock bool `json:"use_mock"`

	Host     string `json:"host"`
	Port     int    `json:"port"`
	Name     string `json:"name"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslmode"`

	// Pool sizing, mapped from DB_MIN_CONNECTIONS / DB_MAX_CONNECTIONS.
	MinConnections int `json:"min_connections"`
	MaxConnections int `json:"max_connections"`

	ConnectTimeout  time.Duration `json:"connect_timeout"`
	MaxConnLifetime time.Duration `json:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `json:"max_conn_idle_time"`
}

// RedisConfig holds cache settings. The cache is optional; when disabled
// (or unreachable) query handlers read straight from the datastore.
type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`

	ContextTTL  time.Duration `json:"context_ttl"`
	TemplateTTL time.Duration `json:"template_ttl"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host               string        `json:"host"`
	Port               int           `json:"port"`
	ReadTimeout        time.Duration `json:"read_timeout"`
	WriteTimeout       time.Duration `json:"write_timeout"`
	IdleTimeout        time.Duration `json:"idle_timeout"`
	EnableCORS         bool          `json:"enable_cors"`
	RateLimitPerMinute int           `json:"rate_limit_per_minute"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `json:"level"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled bool `json:"enabled"`
}

// envKeys maps the documented environment variables onto config keys.
// Variables not listed here are ignored.
var envKeys = map[string]string{
	"APP_ENV":            "app.environment",
	"APP_NAME":           "app.name",
	"SHUTDOWN_TIMEOUT":   "app.shutdown_timeout",
	"USE_MOCK_DB":        "database.use_mock",
	"DB_HOST":            "database.host",
	"DB_PORT":            "database.port",
	"DB_NAME":            "database.name",
	"DB_USER":            "database.user",
	"DB_PASSWORD":        "database.password",
	"DB_SSLMODE":         "database.sslmode",
	"DB_MIN_CONNECTIONS": "database.min_connections",
	"DB_MAX_CONNECTIONS": "database.max_connections",
	"REDIS_ENABLED":      "redis.enabled",
	"REDIS_HOST":         "redis.host",
	"REDIS_PORT":         "redis.port",
	"REDIS_PASSWORD":     "redis.password",
	"REDIS_DB":           "redis.db",
	"HTTP_HOST":          "server.host",
	"HTTP_PORT":          "server.port",
	"LOG_LEVEL":          "logging.level",
	"METRICS_ENABLED":    "metrics.enabled",
}

// Load reads configuration from the optional file at path (empty path or
// a missing file means env-only), applies environment overrides, then
// defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var parser koanf.Parser
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				parser = kyaml.Parser()
			case ".json":
				parser = kjson.Parser()
			default:
				return nil, fmt.Errorf("config: unsupported format: %s", path)
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, fmt.Errorf("config: load %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("config: env overrides: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills in zero-valued fields.
func (c *Config) SetDefaults() {
	if c.App.Name == "" {
		c.App.Name = "pedagogy-reasoner"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.Version == "" {
		c.App.Version = "0.1.0"
	}
	if c.App.ShutdownTimeout <= 0 {
		c.App.ShutdownTimeout = 30 * time.Second
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.Name == "" {
		c.Database.Name = "pedagogy"
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MinConnections <= 0 {
		c.Database.MinConnections = 2
	}
	if c.Database.MaxConnections <= 0 {
		c.Database.MaxConnections = 10
	}
	if c.Database.ConnectTimeout <= 0 {
		c.Database.ConnectTimeout = 10 * time.Second
	}
	if c.Database.MaxConnLifetime <= 0 {
		c.Database.MaxConnLifetime = time.Hour
	}
	if c.Database.MaxConnIdleTime <= 0 {
		c.Database.MaxConnIdleTime = 30 * time.Minute
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.ContextTTL <= 0 {
		c.Redis.ContextTTL = 5 * time.Minute
	}
	if c.Redis.TemplateTTL <= 0 {
		c.Redis.TemplateTTL = 30 * time.Minute
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout <= 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.RateLimitPerMinute == 0 {
		c.Server.RateLimitPerMinute = 120
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.MinConnections > c.Database.MaxConnections {
		errs = append(errs, "DB_MIN_CONNECTIONS must not exceed DB_MAX_CONNECTIONS")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		errs = append(errs, "DB_PORT must be a valid port")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "HTTP_PORT must be a valid port")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL %q is not a known level", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.App.Environment, "development")
}
