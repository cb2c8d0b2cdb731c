package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	Storage        string `toml:"storage"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	RunMigrations  bool   `toml:"run_migrations"`

	// http
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`

	// redis (sessions, rate limiting)
	RedisHost         string `toml:"redis_host"`
	RedisPort         string `toml:"redis_port"`
	SessionTTLHours   int    `toml:"session_ttl_hours"`
	WriteRateLimitMin int    `toml:"write_rate_limit_per_min"`

	// definitions cache
	DefinitionsCacheSizeMB  int `toml:"definitions_cache_size_mb"`
	DefinitionsCacheTTLSecs int `toml:"definitions_cache_ttl_seconds"`

	// variation templates
	TemplatesPath       string `toml:"templates_path"`
	SeedSystemExercises bool   `toml:"seed_system_exercises"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env,
// with unset values replaced by defaults.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}

	cfg.setDefaults(env)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) setDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9100
	}
	if len(c.CorsAllowedOrigins) == 0 {
		c.CorsAllowedOrigins = []string{"http://localhost:8080", "http://localhost:3000"}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Storage == "" {
		c.Storage = StoragePostgres
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = 24 * 7
	}
	if c.WriteRateLimitMin == 0 {
		c.WriteRateLimitMin = 30
	}
	if c.DefinitionsCacheSizeMB == 0 {
		c.DefinitionsCacheSizeMB = 16
	}
	if c.DefinitionsCacheTTLSecs == 0 {
		c.DefinitionsCacheTTLSecs = 300
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return errors.New("postgres storage requires postgres_host and postgres_db_name")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage [%s]", c.Storage)
	}
	return nil
}
