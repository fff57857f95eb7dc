package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PATTERN_SOURCE", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "false")
	t.Setenv("VALIDATE_RATE_PER_MINUTE", "600")
	t.Setenv("VALIDATE_RATE_BURST", "60")
	t.Setenv("PATTERN_FILE", "")

	_, err := Load()
	require.Error(t, err, "an empty PATTERN_SOURCE is not a valid source")

	t.Setenv("PATTERN_SOURCE", "Static")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, PatternSourceStatic, cfg.GetPatternSource())
	assert.False(t, cfg.IsDatabaseEnabled())
	assert.False(t, cfg.IsBatchesEnabled())
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.GetCORSOrigins())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			PatternSource:         PatternSourceStatic,
			ValidateRatePerMinute: 60,
			ValidateRateBurst:     10,
		}
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"static ok", func(c *Config) {}, ""},
		{"libphonenumber ok", func(c *Config) { c.PatternSource = PatternSourceLibPhoneNumber }, ""},
		{"postgres needs database", func(c *Config) { c.PatternSource = PatternSourcePostgres }, "DATABASE_URL is required"},
		{"postgres ok", func(c *Config) {
			c.PatternSource = PatternSourcePostgres
			c.DatabaseURL = "postgres://localhost/db"
		}, ""},
		{"unknown source", func(c *Config) { c.PatternSource = "ldap" }, "PATTERN_SOURCE must be one of"},
		{"file needs static", func(c *Config) {
			c.PatternSource = PatternSourceLibPhoneNumber
			c.PatternFile = "patterns.yaml"
		}, "PATTERN_FILE"},
		{"batches need database", func(c *Config) {
			c.RedisURL = "redis://localhost:6379"
			c.JWTAccessSecret = "s"
		}, "DATABASE_URL is required when REDIS_URL is set"},
		{"batches need jwt", func(c *Config) {
			c.RedisURL = "redis://localhost:6379"
			c.DatabaseURL = "postgres://localhost/db"
		}, "JWT_ACCESS_SECRET"},
		{"cors wildcard with credentials", func(c *Config) {
			c.CORSAllowAll = true
			c.CORSAllowCreds = true
		}, "CORS_ALLOW_CREDENTIALS"},
		{"rate must be positive", func(c *Config) { c.ValidateRateBurst = 0 }, "must be positive"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSplitCSVAndWildcard(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a, ,b "))
	assert.True(t, containsWildcard([]string{"x", "*"}))
	assert.False(t, containsWildcard(nil))
}
