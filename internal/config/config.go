// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	ImageStore ImageStoreConfig `yaml:"image_store"`
	Payments   PaymentsConfig   `yaml:"payments"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	ReadTimeout     int      `yaml:"read_timeout"`     // seconds
	WriteTimeout    int      `yaml:"write_timeout"`    // seconds
	ShutdownTimeout int      `yaml:"shutdown_timeout"` // seconds
	CORSOrigins     []string `yaml:"cors_origins"`     // empty or "*" allows all
}

// DatabaseConfig controls the PostgreSQL connection. An empty DSN selects the
// in-memory stores.
type DatabaseConfig struct {
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
}

// AuthConfig controls token issuance.
type AuthConfig struct {
	Secret   string `yaml:"secret"`
	TokenTTL int    `yaml:"token_ttl"` // hours
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// RateLimitConfig controls per-caller request throttling.
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second"`
	Burst             int `yaml:"burst"`
}

// ImageStoreConfig configures the external media service.
type ImageStoreConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Secret  string `yaml:"secret"`
	Folder  string `yaml:"folder"`
}

// PaymentsConfig configures the external payment gateway.
type PaymentsConfig struct {
	BaseURL     string `yaml:"base_url"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	CallbackURL string `yaml:"callback_url"`
}

// Load reads configuration from CONFIG_PATH (default config/config.yaml) and
// applies environment overrides. A missing file is not an error; defaults and
// the environment are enough to run.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}
	return LoadFromPath(path)
}

// LoadFromPath reads configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)

	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is required (auth.secret or JWT_SECRET)")
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 10,
		},
		Auth: AuthConfig{TokenTTL: 24},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Database.DSN, "DATABASE_DSN")
	setString(&cfg.Auth.Secret, "JWT_SECRET")
	setInt(&cfg.Auth.TokenTTL, "JWT_TTL_HOURS")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
	setString(&cfg.Logging.Format, "LOG_FORMAT")
	setString(&cfg.ImageStore.BaseURL, "IMAGE_STORE_URL")
	setString(&cfg.ImageStore.APIKey, "IMAGE_STORE_KEY")
	setString(&cfg.ImageStore.Secret, "IMAGE_STORE_SECRET")
	setString(&cfg.Payments.BaseURL, "PAYMENT_GATEWAY_URL")
	setString(&cfg.Payments.Username, "PAYMENT_GATEWAY_USER")
	setString(&cfg.Payments.Password, "PAYMENT_GATEWAY_PASSWORD")
	setString(&cfg.Payments.CallbackURL, "PAYMENT_CALLBACK_URL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// TokenTTLDuration returns the configured token lifetime as a duration.
func (c AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(c.TokenTTL) * time.Hour
}
