// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/artpar/themedesigner/adapters/hasher"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Admin    AdminConfig    `yaml:"admin"`
	Fields   FieldsConfig   `yaml:"fields"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	OpenAPI  OpenAPIConfig  `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig configures the database.
type DatabaseConfig struct {
	Driver    string `yaml:"driver"` // "sqlite", "postgres" or "memory"
	DSN       string `yaml:"dsn"`
	CacheSize int    `yaml:"cache_size"` // cached field values, 0 disables
}

// AdminConfig configures basic auth for the admin API.
// An empty PasswordHash disables the admin API.
type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

// FieldsConfig declares the field managers.
type FieldsConfig struct {
	Namespace string          `yaml:"namespace"`
	Managers  []ManagerConfig `yaml:"managers"`
}

// ManagerConfig declares one manager and its fields.
type ManagerConfig struct {
	Name   string        `yaml:"name"`
	Fields []FieldConfig `yaml:"fields"`
}

// FieldConfig declares one field. Every key other than name and type is
// collected into Args and applied as a construction override.
type FieldConfig struct {
	Name string         `yaml:"name"`
	Type string         `yaml:"type"` // "text" (default) or "date"
	Args map[string]any `yaml:",inline"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // default: /metrics
}

// OpenAPIConfig configures Swagger documentation.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	data = expandEnv(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// envRef matches ${VAR}. Bare $VAR is left alone so bcrypt hashes survive.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		return []byte(os.Getenv(string(m[2 : len(m)-1])))
	})
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	THEMEDESIGNER_SERVER_HOST          - Server host (default: 0.0.0.0)
//	THEMEDESIGNER_SERVER_PORT          - Server port (default: 8080)
//	THEMEDESIGNER_DATABASE_DRIVER      - sqlite, postgres or memory (default: sqlite)
//	THEMEDESIGNER_DATABASE_DSN         - Database path or URL (default: themedesigner.db)
//	THEMEDESIGNER_DATABASE_CACHE_SIZE  - Cached field values, 0 disables (default: 0)
//	THEMEDESIGNER_ADMIN_USERNAME       - Admin user (default: admin)
//	THEMEDESIGNER_ADMIN_PASSWORD_HASH  - bcrypt hash of the admin password
//	THEMEDESIGNER_FIELDS_NAMESPACE     - Posted key namespace (default: thds)
//	THEMEDESIGNER_LOG_LEVEL            - debug, info, warn, error (default: info)
//	THEMEDESIGNER_LOG_FORMAT           - json or console (default: json)
//	THEMEDESIGNER_METRICS_ENABLED      - Enable /metrics
//	THEMEDESIGNER_OPENAPI_ENABLED      - Enable /swagger
//
// Field managers can only be declared in a file.
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads path if it exists, otherwise the environment.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// HasEnvConfig returns true if a database is configured through the environment.
func HasEnvConfig() bool {
	return os.Getenv("THEMEDESIGNER_DATABASE_DSN") != "" ||
		os.Getenv("THEMEDESIGNER_DATABASE_DRIVER") != ""
}

// applyEnvOverrides applies THEMEDESIGNER_* environment variables.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("THEMEDESIGNER_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("THEMEDESIGNER_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("THEMEDESIGNER_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("THEMEDESIGNER_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	if v := os.Getenv("THEMEDESIGNER_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("THEMEDESIGNER_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("THEMEDESIGNER_DATABASE_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.CacheSize = n
		}
	}

	if v := os.Getenv("THEMEDESIGNER_ADMIN_USERNAME"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("THEMEDESIGNER_ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Admin.PasswordHash = v
	}

	if v := os.Getenv("THEMEDESIGNER_FIELDS_NAMESPACE"); v != "" {
		cfg.Fields.Namespace = v
	}

	if v := os.Getenv("THEMEDESIGNER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("THEMEDESIGNER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("THEMEDESIGNER_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("THEMEDESIGNER_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	if v := os.Getenv("THEMEDESIGNER_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "themedesigner.db"
	}

	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
	}

	if cfg.Fields.Namespace == "" {
		cfg.Fields.Namespace = "thds"
	}
	for i := range cfg.Fields.Managers {
		for j := range cfg.Fields.Managers[i].Fields {
			if cfg.Fields.Managers[i].Fields[j].Type == "" {
				cfg.Fields.Managers[i].Fields[j].Type = "text"
			}
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "sqlite", "memory":
	case "postgres":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required when database.driver is 'postgres'")
		}
	default:
		return fmt.Errorf("database.driver must be one of: sqlite, postgres, memory; got %q", cfg.Database.Driver)
	}

	if cfg.Database.CacheSize < 0 {
		return fmt.Errorf("database.cache_size must not be negative, got %d", cfg.Database.CacheSize)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Admin.PasswordHash != "" && !hasher.ValidHash(cfg.Admin.PasswordHash) {
		return fmt.Errorf("admin.password_hash is not a bcrypt hash; generate one with 'themedesigner admin hash-password'")
	}

	managers := make(map[string]bool)
	for i, m := range cfg.Fields.Managers {
		if m.Name == "" {
			return fmt.Errorf("fields.managers[%d].name is required", i)
		}
		if managers[m.Name] {
			return fmt.Errorf("fields.managers[%d]: duplicate manager %q", i, m.Name)
		}
		managers[m.Name] = true

		names := make(map[string]bool)
		for j, f := range m.Fields {
			if f.Name == "" {
				return fmt.Errorf("fields.managers[%d].fields[%d].name is required", i, j)
			}
			if names[f.Name] {
				return fmt.Errorf("fields.managers[%d]: duplicate field %q", i, f.Name)
			}
			names[f.Name] = true
			if f.Type != "text" && f.Type != "date" {
				return fmt.Errorf("fields.managers[%d].fields[%d].type must be 'text' or 'date', got %q", i, j, f.Type)
			}
		}
	}

	return nil
}
