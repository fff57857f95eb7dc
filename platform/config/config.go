// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Pattern sources for the country registry.
const (
	PatternSourceStatic         = "static"
	PatternSourceLibPhoneNumber = "libphonenumber"
	PatternSourcePostgres       = "postgres"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides Redis and asynq settings for batch jobs.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// RegistryConfig selects where national country patterns come from.
type RegistryConfig interface {
	GetPatternSource() string
	GetPatternFile() string
}

// RuleDefaultsConfig describes the rule used when a request names no checks.
type RuleDefaultsConfig interface {
	// GetDefaultCountries returns "all", "false" or a comma separated id list.
	GetDefaultCountries() string
	// GetDefaultInternationalFormat returns "EPP", "ITU" or "false".
	GetDefaultInternationalFormat() string
}

// LocaleConfig provides the fallback locale for messages.
type LocaleConfig interface {
	GetDefaultLocale() string
}

// RateLimitConfig provides the per-IP limits for validation endpoints.
type RateLimitConfig interface {
	GetValidateRatePerMinute() int
	GetValidateRateBurst() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                        string
	HTTPAddr                   string
	DatabaseURL                string
	JWTAccessSecret            string
	CORSAllowAll               bool
	CORSOrigins                []string
	CORSAllowCreds             bool
	RedisURL                   string
	RedisTLSInsecure           bool
	AsynqQueueName             string
	AsynqConcurrency           int
	PatternSource              string
	PatternFile                string
	DefaultCountries           string
	DefaultInternationalFormat string
	DefaultLocale              string
	ValidateRatePerMinute      int
	ValidateRateBurst          int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsBatchesEnabled() bool    { return c.RedisURL != "" }

// RegistryConfig implementation
func (c *Config) GetPatternSource() string { return c.PatternSource }
func (c *Config) GetPatternFile() string   { return c.PatternFile }

// RuleDefaultsConfig implementation
func (c *Config) GetDefaultCountries() string           { return c.DefaultCountries }
func (c *Config) GetDefaultInternationalFormat() string { return c.DefaultInternationalFormat }

// LocaleConfig implementation
func (c *Config) GetDefaultLocale() string { return c.DefaultLocale }

// RateLimitConfig implementation
func (c *Config) GetValidateRatePerMinute() int { return c.ValidateRatePerMinute }
func (c *Config) GetValidateRateBurst() int     { return c.ValidateRateBurst }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                        getEnv("APP_ENV", "development"),
		HTTPAddr:                   getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                getEnv("DATABASE_URL", ""),
		JWTAccessSecret:            getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:               corsAllowAll,
		CORSOrigins:                corsOrigins,
		CORSAllowCreds:             strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RedisURL:                   getEnv("REDIS_URL", ""),
		RedisTLSInsecure:           strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:             getEnv("ASYNQ_QUEUE", "phonenumbers"),
		AsynqConcurrency:           mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		PatternSource:              strings.ToLower(getEnv("PATTERN_SOURCE", PatternSourceStatic)),
		PatternFile:                getEnv("PATTERN_FILE", ""),
		DefaultCountries:           getEnv("DEFAULT_COUNTRIES", "all"),
		DefaultInternationalFormat: getEnv("DEFAULT_INTERNATIONAL_FORMAT", "ITU"),
		DefaultLocale:              getEnv("DEFAULT_LOCALE", "en"),
		ValidateRatePerMinute:      mustInt(getEnv("VALIDATE_RATE_PER_MINUTE", "600")),
		ValidateRateBurst:          mustInt(getEnv("VALIDATE_RATE_BURST", "60")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.PatternSource {
	case PatternSourceStatic, PatternSourceLibPhoneNumber:
	case PatternSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when PATTERN_SOURCE is postgres")
		}
	default:
		return fmt.Errorf("PATTERN_SOURCE must be one of static, libphonenumber, postgres; got %q", c.PatternSource)
	}
	if c.PatternFile != "" && c.PatternSource != PatternSourceStatic {
		return fmt.Errorf("PATTERN_FILE is only used with PATTERN_SOURCE=static")
	}
	if c.IsBatchesEnabled() {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when REDIS_URL is set")
		}
		if c.JWTAccessSecret == "" {
			return fmt.Errorf("JWT_ACCESS_SECRET is required when REDIS_URL is set")
		}
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if c.ValidateRatePerMinute < 1 || c.ValidateRateBurst < 1 {
		return fmt.Errorf("VALIDATE_RATE_PER_MINUTE and VALIDATE_RATE_BURST must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
