package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"FIXERUPPERA_SERVER_PORT",
	"FIXERUPPERA_SERVER_ENVIRONMENT",
	"FIXERUPPERA_SERVER_ALLOWED_ORIGINS",
	"FIXERUPPERA_BUNNINGS_CLIENT_ID",
	"FIXERUPPERA_BUNNINGS_CLIENT_SECRET",
	"FIXERUPPERA_BUNNINGS_ITEM_BASE_URL",
	"FIXERUPPERA_BUNNINGS_CALL_TIMEOUT",
	"FIXERUPPERA_BUNNINGS_MAX_ATTEMPTS",
	"FIXERUPPERA_CACHE_TYPE",
	"FIXERUPPERA_CACHE_SEARCH_TTL",
	"FIXERUPPERA_RATELIMIT_PER_IP",
	"BUNNINGS_CLIENT_ID",
	"BUNNINGS_CLIENT_SECRET",
}

func cleanupEnv() {
	for _, key := range envKeys {
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Bunnings.ItemBaseURL != "https://item.sandbox.api.bunnings.com.au/item" {
			t.Errorf("Bunnings.ItemBaseURL = %s, want sandbox item URL", cfg.Bunnings.ItemBaseURL)
		}
		if cfg.Bunnings.TokenURL != "https://connect.sandbox.api.bunnings.com.au/connect/token" {
			t.Errorf("Bunnings.TokenURL = %s, want sandbox token URL", cfg.Bunnings.TokenURL)
		}
		if cfg.Bunnings.Country != "AU" {
			t.Errorf("Bunnings.Country = %s, want AU", cfg.Bunnings.Country)
		}
		if cfg.Bunnings.CallTimeout != 10*time.Second {
			t.Errorf("Bunnings.CallTimeout = %v, want 10s", cfg.Bunnings.CallTimeout)
		}
		if cfg.Bunnings.MaxAttempts != 1 {
			t.Errorf("Bunnings.MaxAttempts = %d, want 1", cfg.Bunnings.MaxAttempts)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.SearchTTL != 6*time.Hour {
			t.Errorf("Cache.SearchTTL = %v, want 6h", cfg.Cache.SearchTTL)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
	})

	t.Run("missing credentials are not an error", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Bunnings.Configured() {
			t.Error("Bunnings.Configured() = true, want false without credentials")
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FIXERUPPERA_SERVER_PORT", "9090")
		os.Setenv("FIXERUPPERA_SERVER_ENVIRONMENT", "production")
		os.Setenv("FIXERUPPERA_SERVER_ALLOWED_ORIGINS", "https://fixeruppera.app,https://*.fixeruppera.app")
		os.Setenv("FIXERUPPERA_BUNNINGS_ITEM_BASE_URL", "https://item.api.bunnings.com.au/item")
		os.Setenv("FIXERUPPERA_BUNNINGS_CALL_TIMEOUT", "3s")
		os.Setenv("FIXERUPPERA_BUNNINGS_MAX_ATTEMPTS", "3")
		os.Setenv("FIXERUPPERA_CACHE_SEARCH_TTL", "30m")
		os.Setenv("FIXERUPPERA_RATELIMIT_PER_IP", "200")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if strings.Join(cfg.Server.AllowedOrigins, " ") != "https://fixeruppera.app https://*.fixeruppera.app" {
			t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
		}
		if cfg.Bunnings.ItemBaseURL != "https://item.api.bunnings.com.au/item" {
			t.Errorf("Bunnings.ItemBaseURL = %s", cfg.Bunnings.ItemBaseURL)
		}
		if cfg.Bunnings.CallTimeout != 3*time.Second {
			t.Errorf("Bunnings.CallTimeout = %v, want 3s", cfg.Bunnings.CallTimeout)
		}
		if cfg.Bunnings.MaxAttempts != 3 {
			t.Errorf("Bunnings.MaxAttempts = %d, want 3", cfg.Bunnings.MaxAttempts)
		}
		if cfg.Cache.SearchTTL != 30*time.Minute {
			t.Errorf("Cache.SearchTTL = %v, want 30m", cfg.Cache.SearchTTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
	})

	t.Run("reads credentials from unprefixed names", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("BUNNINGS_CLIENT_ID", "client-123")
		os.Setenv("BUNNINGS_CLIENT_SECRET", "secret-456")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Bunnings.ClientID != "client-123" || cfg.Bunnings.ClientSecret != "secret-456" {
			t.Errorf("credentials = %q/%q", cfg.Bunnings.ClientID, cfg.Bunnings.ClientSecret)
		}
		if !cfg.Bunnings.Configured() {
			t.Error("Bunnings.Configured() = false, want true")
		}
	})

	t.Run("prefixed credentials win", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FIXERUPPERA_BUNNINGS_CLIENT_ID", "prefixed")
		os.Setenv("BUNNINGS_CLIENT_ID", "plain")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Bunnings.ClientID != "prefixed" {
			t.Errorf("Bunnings.ClientID = %s, want prefixed", cfg.Bunnings.ClientID)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FIXERUPPERA_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for unsupported cache type")
		}
	})

	t.Run("fails validation for zero attempts", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FIXERUPPERA_BUNNINGS_MAX_ATTEMPTS", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero attempts")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	chdirTemp := func(t *testing.T) {
		t.Helper()
		originalDir, _ := os.Getwd()
		t.Cleanup(func() { os.Chdir(originalDir) })
		os.Chdir(t.TempDir())
	}

	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		chdirTemp(t)

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		chdirTemp(t)

		envContent := `
# Bunnings sandbox credentials
TEST_BUNNINGS_ID=abc123

TEST_BUNNINGS_SECRET="s3cr3t"
# TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		os.Unsetenv("TEST_BUNNINGS_ID")
		os.Unsetenv("TEST_BUNNINGS_SECRET")
		os.Unsetenv("TEST_COMMENTED")
		defer func() {
			os.Unsetenv("TEST_BUNNINGS_ID")
			os.Unsetenv("TEST_BUNNINGS_SECRET")
		}()

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_BUNNINGS_ID") != "abc123" {
			t.Errorf("TEST_BUNNINGS_ID = %s, want abc123", os.Getenv("TEST_BUNNINGS_ID"))
		}
		if os.Getenv("TEST_BUNNINGS_SECRET") != "s3cr3t" {
			t.Errorf("TEST_BUNNINGS_SECRET = %s, want s3cr3t", os.Getenv("TEST_BUNNINGS_SECRET"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		chdirTemp(t)

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Bunnings: BunningsConfig{Country: "AU", CallTimeout: 10 * time.Second, MaxAttempts: 1},
			Cache:    CacheConfig{Type: "memory"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "valid without credentials", mutate: func(c *Config) { c.Bunnings.ClientID = "" }},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "unsupported cache", mutate: func(c *Config) { c.Cache.Type = "redis" }, wantErr: true},
		{name: "empty country", mutate: func(c *Config) { c.Bunnings.Country = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Bunnings.CallTimeout = 0 }, wantErr: true},
		{name: "zero attempts", mutate: func(c *Config) { c.Bunnings.MaxAttempts = 0 }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *Config) { c.RateLimit.PerIP = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
