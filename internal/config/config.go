package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	apperrors "github.com/car-leasing/core-api/pkg/errors"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config/config.yaml"

type Config struct {
	Server       ServerConfig       `yaml:"server" envconfig:"SERVER"`
	JWT          JWTConfig          `yaml:"jwt" envconfig:"JWT"`
	Session      SessionConfig      `yaml:"session" envconfig:"SESSION"`
	Database     DatabaseConfig     `yaml:"database" envconfig:"POSTGRES"`
	Redis        RedisConfig        `yaml:"redis" envconfig:"REDIS"`
	Meilisearch  MeilisearchConfig  `yaml:"meilisearch" envconfig:"MEILISEARCH"`
	LeaseService LeaseServiceConfig `yaml:"lease_service" envconfig:"LEASE_SERVICE"`
	Log          LogConfig          `yaml:"log" envconfig:"LOG"`
}

type ServerConfig struct {
	Host string `yaml:"host" envconfig:"HOST"`
	Port int    `yaml:"port" envconfig:"PORT"`
}

type JWTConfig struct {
	Secret string `yaml:"secret" envconfig:"SECRET"`
	// Expiration is the token lifetime in seconds.
	Expiration int `yaml:"expiration" envconfig:"EXPIRATION"`
}

type SessionConfig struct {
	Secret     string `yaml:"secret" envconfig:"SECRET"`
	Expiration int    `yaml:"expiration" envconfig:"EXPIRATION"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"HOST"`
	Port     int    `yaml:"port" envconfig:"PORT"`
	User     string `yaml:"user" envconfig:"USER"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	DBName   string `yaml:"db_name" envconfig:"DB"`
}

type RedisConfig struct {
	Host string `yaml:"host" envconfig:"HOST"`
	Port int    `yaml:"port" envconfig:"PORT"`
}

type MeilisearchConfig struct {
	URL    string `yaml:"url" envconfig:"URL"`
	APIKey string `yaml:"api_key" envconfig:"API_KEY"`
}

type LeaseServiceConfig struct {
	URL string `yaml:"url" envconfig:"URL"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"`
}

// Load reads the YAML file named by CONFIG_PATH (or the default location)
// and applies environment overrides.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom reads the YAML file at path and applies environment overrides.
// Precedence per field: file value first, then environment variable.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewAppErrorf(apperrors.CodeConfigError, err, "failed to read config file %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.CodeConfigError, "failed to parse config file", err)
	}

	// Environment overrides. Fields without env vars keep their file values
	// because no envconfig defaults are declared.
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, apperrors.NewAppError(apperrors.CodeConfigError, "failed to process environment config", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewAppError(apperrors.CodeConfigError, "config validation failed", err)
	}

	return &cfg, nil
}

// applyDefaults fills every field a consumer assumes to be present. The
// defaults mirror the platform's docker-compose service names.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = "dev-secret"
	}
	if c.JWT.Expiration == 0 {
		c.JWT.Expiration = 86400
	}
	if c.Database.Host == "" {
		c.Database.Host = "postgres"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "leasing_user"
	}
	if c.Database.Password == "" {
		c.Database.Password = "secure_pass"
	}
	if c.Database.DBName == "" {
		c.Database.DBName = "leasing_db"
	}
	if c.Redis.Host == "" {
		c.Redis.Host = "127.0.0.1"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Meilisearch.URL == "" {
		c.Meilisearch.URL = "http://127.0.0.1:7700"
	}
	if c.LeaseService.URL == "" {
		c.LeaseService.URL = "http://lease-service:3001"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.JWT.Expiration < 0 {
		return fmt.Errorf("invalid jwt expiration: %d", c.JWT.Expiration)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Addr returns the host:port address of the Redis server.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN returns the PostgreSQL connection string for the pool.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
