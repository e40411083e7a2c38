// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSecret = "change-me-in-production"

// Config holds application configuration values loaded from file or environment variables.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	AppName                  string  `mapstructure:"APP_NAME"`
	Version                  string  `mapstructure:"APP_VERSION"`
	Env                      string  `mapstructure:"APP_ENV"`
	Port                     string  `mapstructure:"PORT"`
	DatabaseURL              string  `mapstructure:"DATABASE_URL"`
	SecretKey                string  `mapstructure:"SECRET_KEY"`
	TokenAlgorithm           string  `mapstructure:"TOKEN_ALGORITHM"`
	AccessTokenExpireMinutes int     `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	AllowedOrigins           string  `mapstructure:"CORS_ORIGINS"`
	RedisURL                 string  `mapstructure:"REDIS_URL"`
	RateLimitEnabled         bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	GlobalRateLimit          int     `mapstructure:"RATE_LIMIT_GLOBAL_PER_MINUTE"`
	FeatureFlags             string  `mapstructure:"FEATURE_FLAGS"`
	DBMaxOpenConns           int     `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int     `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int     `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSchemaMode             string  `mapstructure:"DB_SCHEMA_MODE"`
	TracingEnabled           bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter          string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint             string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio      float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

var defaults = map[string]interface{}{
	"APP_NAME":                     "HustleHub",
	"APP_VERSION":                  "1.0.0",
	"APP_ENV":                      "development",
	"PORT":                         "8000",
	"DATABASE_URL":                 "sqlite://hustlehub.db",
	"SECRET_KEY":                   defaultSecret,
	"TOKEN_ALGORITHM":              "HS256",
	"ACCESS_TOKEN_EXPIRE_MINUTES":  30,
	"CORS_ORIGINS":                 "http://localhost:3000,http://localhost:5173",
	"REDIS_URL":                    "",
	"RATE_LIMIT_ENABLED":           true,
	"RATE_LIMIT_GLOBAL_PER_MINUTE": 300,
	"FEATURE_FLAGS":                "",
	"DB_MAX_OPEN_CONNS":            25,
	"DB_MAX_IDLE_CONNS":            10,
	"DB_CONN_MAX_LIFETIME_MINUTES": 30,
	"DB_SCHEMA_MODE":               "hybrid",
	"TRACING_ENABLED":              false,
	"TRACING_EXPORTER":             "stdout",
	"OTLP_ENDPOINT":                "localhost:4318",
	"TRACING_SAMPLER_RATIO":        1.0,
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// The base file is optional.
	_ = v.ReadInConfig()

	env := strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))
	if env != "" && env != "development" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err == nil {
			slog.Info("loaded profile-specific configuration", slog.String("file", "config."+env+".yml"))
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.TokenAlgorithm = strings.ToUpper(strings.TrimSpace(c.TokenAlgorithm))
	c.DBSchemaMode = strings.ToLower(strings.TrimSpace(c.DBSchemaMode))
	c.TracingExporter = strings.ToLower(strings.TrimSpace(c.TracingExporter))
}

// IsProduction reports whether the service runs with production strictness.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// TokenTTL is the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	switch c.TokenAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("TOKEN_ALGORITHM %q is not supported", c.TokenAlgorithm)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	switch c.DBSchemaMode {
	case "", "hybrid", "sql", "auto":
	default:
		return fmt.Errorf("DB_SCHEMA_MODE %q is not one of hybrid, sql, auto", c.DBSchemaMode)
	}
	if c.GlobalRateLimit < 0 {
		return errors.New("RATE_LIMIT_GLOBAL_PER_MINUTE must not be negative")
	}
	if c.TracingSamplerRatio < 0 || c.TracingSamplerRatio > 1 {
		return errors.New("TRACING_SAMPLER_RATIO must be between 0 and 1")
	}

	if c.IsProduction() {
		if c.SecretKey == defaultSecret {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if len(c.SecretKey) < 32 {
			return errors.New("SECRET_KEY must be at least 32 characters in production")
		}
		if strings.HasPrefix(c.DatabaseURL, "sqlite:") {
			slog.Warn("DATABASE_URL points at sqlite in production")
		}
		if c.AllowedOrigins == "*" {
			slog.Warn("CORS_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.SecretKey) < 32 {
		slog.Warn("SECRET_KEY is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
