package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Search backends
const (
	SearchBackendPostgres      = "postgres"
	SearchBackendElasticsearch = "elasticsearch"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		MinIdleConns    int    `yaml:"min_idle_conns" env:"DB_MIN_IDLE_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Search struct {
		Backend string `yaml:"backend" env:"SEARCH_BACKEND"`
	} `yaml:"search"`

	Redis struct {
		Enabled     bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr        string `yaml:"addr" env:"REDIS_ADDR"`
		Password    string `yaml:"password" env:"REDIS_PASSWORD"`
		DB          int    `yaml:"db" env:"REDIS_DB"`
		SemesterTTL string `yaml:"semester_ttl" env:"REDIS_SEMESTER_TTL"`
	} `yaml:"redis"`

	Elasticsearch struct {
		Addresses []string `yaml:"addresses" env:"ELASTICSEARCH_ADDRESSES"`
		Username  string   `yaml:"username" env:"ELASTICSEARCH_USERNAME"`
		Password  string   `yaml:"password" env:"ELASTICSEARCH_PASSWORD"`
		Index     string   `yaml:"index" env:"ELASTICSEARCH_INDEX"`
	} `yaml:"elasticsearch"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory, when present, seeds the environment first.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ShutdownTimeout = "5s"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "coursescope"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 20
	config.Database.MinIdleConns = 2
	config.Database.ConnMaxLifetime = "1h"

	// JWT defaults
	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.Issuer = "coursescope"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Search.Backend = SearchBackendPostgres

	config.Redis.Addr = "localhost:6379"
	config.Redis.SemesterTTL = "10m"

	config.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	config.Elasticsearch.Index = "coursescope-search"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration":  config.JWT.AccessTokenExpiration,
		"server shutdown timeout":      config.Server.ShutdownTimeout,
		"database connection lifetime": config.Database.ConnMaxLifetime,
		"redis semester TTL":           config.Redis.SemesterTTL,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch config.Search.Backend {
	case SearchBackendPostgres:
	case SearchBackendElasticsearch:
		if len(config.Elasticsearch.Addresses) == 0 || config.Elasticsearch.Index == "" {
			return fmt.Errorf("elasticsearch addresses and index are required for the elasticsearch search backend")
		}
	default:
		return fmt.Errorf("unknown search backend %q", config.Search.Backend)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
}
