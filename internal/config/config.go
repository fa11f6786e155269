// Package config builds the service configuration from defaults, an optional
// config file and the process environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds runtime settings for the API server.
type Config struct {
	Port      int
	Env       string
	LogLevel  string
	LogFormat string
	JWT       JWT
	Store     Store
	Redis     Redis
	Seed      Seed
	RateLimit RateLimit
	CORS      CORS
}

// JWT contains token signing parameters.
type JWT struct {
	Secret string
	TTL    time.Duration
}

// Store selects the persistence backend. An empty DSN with the sqlite driver
// means a private in-memory database that lives as long as the process.
type Store struct {
	Driver string
	DSN    string
}

// Redis contains connection parameters for the redis store.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Seed is the credential inserted into the user store at startup.
type Seed struct {
	Username string
	Password string
}

// RateLimit configures the per-IP request throttle. RPS == 0 disables it.
type RateLimit struct {
	RPS   float64
	Burst int
}

// CORS contains cross-origin settings.
type CORS struct {
	AllowedOrigin string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("app_env", EnvProduction)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("jwt_ttl", "24h")
	v.SetDefault("store_driver", DriverSQLite)
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("seed_username", "admin")
	v.SetDefault("seed_password", "admin123")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("cors_allowed_origin", "*")
}

// Load reads the configuration. Environment variables take precedence over
// the file named by CONFIG_FILE, which takes precedence over defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", file, err)
		}
	}

	cfg := &Config{
		Port:      v.GetInt("port"),
		Env:       strings.ToLower(v.GetString("app_env")),
		LogLevel:  strings.ToLower(v.GetString("log_level")),
		LogFormat: strings.ToLower(v.GetString("log_format")),
		JWT: JWT{
			Secret: v.GetString("jwt_secret"),
			TTL:    v.GetDuration("jwt_ttl"),
		},
		Store: Store{
			Driver: strings.ToLower(v.GetString("store_driver")),
			DSN:    v.GetString("database_url"),
		},
		Redis: Redis{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Seed: Seed{
			Username: v.GetString("seed_username"),
			Password: v.GetString("seed_password"),
		},
		RateLimit: RateLimit{
			RPS:   v.GetFloat64("rate_limit_rps"),
			Burst: v.GetInt("rate_limit_burst"),
		},
		CORS: CORS{
			AllowedOrigin: v.GetString("cors_allowed_origin"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt ttl must be positive"))
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverRedis:
	case DriverPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.Seed.Username == "" || c.Seed.Password == "" {
		errs = append(errs, errors.New("seed username and password are required"))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("rate limit rps cannot be negative"))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate limit burst must be positive"))
	}

	return errors.Join(errs...)
}

// IsDevelopment reports whether error details may be sent to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.LogLevel)
}
