// Package config provides configuration loading and validation for the CV uploader.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends understood by store.Open.
const (
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Config represents the uploader configuration. It can be loaded from a JSON or
// YAML file and overridden by environment variables; missing values use defaults.
type Config struct {
	Port       int    `json:"port,omitempty" yaml:"port,omitempty"`
	Backend    string `json:"backend,omitempty" yaml:"backend,omitempty"`       // postgres, s3, redis or memory
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"` // document collection name

	DatabaseURL string   `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string   `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	S3          S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`

	AMQPURL      string `json:"amqp_url,omitempty" yaml:"amqp_url,omitempty"` // empty disables submission events
	AMQPExchange string `json:"amqp_exchange,omitempty" yaml:"amqp_exchange,omitempty"`

	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty"` // json or text

	RateLimit RateLimitConfig `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
}

// S3Config configures the object-store backend.
type S3Config struct {
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"` // custom endpoint for R2/MinIO
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`
}

// RateLimitConfig bounds how often one client may post to the form.
type RateLimitConfig struct {
	Disabled  bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	PerMinute int  `json:"per_minute,omitempty" yaml:"per_minute,omitempty"`
	Burst     int  `json:"burst,omitempty" yaml:"burst,omitempty"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Port:         8080,
		Backend:      BackendPostgres,
		Collection:   "cvs",
		RedisURL:     "redis://localhost:6379/0",
		S3:           S3Config{Region: "auto", Prefix: ""},
		AMQPExchange: "cv_events",
		LogLevel:     "info",
		LogFormat:    "json",
		RateLimit:    RateLimitConfig{PerMinute: 30, Burst: 10},
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset variables stay empty.
func FromEnv() Config {
	return Config{
		Port:        getEnvInt("PORT", 0),
		Backend:     os.Getenv("STORE_BACKEND"),
		Collection:  os.Getenv("CV_COLLECTION"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		S3: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Prefix:    os.Getenv("S3_PREFIX"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: os.Getenv("AMQP_EXCHANGE"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogFormat:    os.Getenv("LOG_FORMAT"),
		RateLimit: RateLimitConfig{
			Disabled:  getEnvBool("RATE_LIMIT_DISABLED", false),
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 0),
			Burst:     getEnvInt("RATE_LIMIT_BURST", 0),
		},
	}
}

// Resolve builds the effective configuration: environment variables win over the
// config file (when path is non-empty), which wins over the defaults.
func Resolve(path string) (Config, error) {
	cfg := FromEnv()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	cfg = cfg.MergeWithDefaults(Default())
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable for the selected backend.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("config error: rate limit values must be non-negative")
	}

	switch c.Backend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres backend")
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("config error: 's3.bucket' is required for the s3 backend")
		}
		if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
			return fmt.Errorf("config error: 's3.access_key' and 's3.secret_key' must be set together")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config error: unknown backend %q", c.Backend)
	}

	if c.AMQPURL != "" && c.AMQPExchange == "" {
		return fmt.Errorf("config error: 'amqp_exchange' is required when 'amqp_url' is set")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Backend == "" {
		result.Backend = defaults.Backend
	}
	if result.Collection == "" {
		result.Collection = defaults.Collection
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.AMQPURL == "" {
		result.AMQPURL = defaults.AMQPURL
	}
	if result.AMQPExchange == "" {
		result.AMQPExchange = defaults.AMQPExchange
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	if result.S3.Bucket == "" {
		result.S3.Bucket = defaults.S3.Bucket
	}
	if result.S3.Region == "" {
		result.S3.Region = defaults.S3.Region
	}
	if result.S3.Endpoint == "" {
		result.S3.Endpoint = defaults.S3.Endpoint
	}
	if result.S3.Prefix == "" {
		result.S3.Prefix = defaults.S3.Prefix
	}
	if result.S3.AccessKey == "" && result.S3.SecretKey == "" {
		result.S3.AccessKey = defaults.S3.AccessKey
		result.S3.SecretKey = defaults.S3.SecretKey
	}

	if result.RateLimit.PerMinute == 0 {
		result.RateLimit.PerMinute = defaults.RateLimit.PerMinute
	}
	if result.RateLimit.Burst == 0 {
		result.RateLimit.Burst = defaults.RateLimit.Burst
	}
	// Disabled only ever turns on: a true anywhere in the chain wins.
	result.RateLimit.Disabled = result.RateLimit.Disabled || defaults.RateLimit.Disabled

	return result
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
