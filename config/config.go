package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Bunnings sandbox endpoints used when nothing else is configured
const (
	defaultTokenURL         = "https://connect.sandbox.api.bunnings.com.au/connect/token"
	defaultItemBaseURL      = "https://item.sandbox.api.bunnings.com.au/item"
	defaultPricingBaseURL   = "https://pricing.sandbox.api.bunnings.com.au/pricing"
	defaultLocationBaseURL  = "https://location.sandbox.api.bunnings.com.au/location"
	defaultInventoryBaseURL = "https://inventory.sandbox.api.bunnings.com.au/inventory"
	defaultScope            = "itm:details pri:pub loc:pub inv:pub"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Bunnings  BunningsConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// BunningsConfig holds Bunnings API configuration
type BunningsConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TokenURL     string `mapstructure:"token_url"`
	Scope        string `mapstructure:"scope"`

	ItemBaseURL      string `mapstructure:"item_base_url"`
	PricingBaseURL   string `mapstructure:"pricing_base_url"`
	LocationBaseURL  string `mapstructure:"location_base_url"`
	InventoryBaseURL string `mapstructure:"inventory_base_url"`
	Country          string `mapstructure:"country"`

	CallTimeout       time.Duration `mapstructure:"call_timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	RetryBackoff      time.Duration `mapstructure:"retry_backoff"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// Configured reports whether both client credentials are present
func (b BunningsConfig) Configured() bool {
	return b.ClientID != "" && b.ClientSecret != ""
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type      string        `mapstructure:"type"` // only "memory" for now
	SearchTTL time.Duration `mapstructure:"search_ttl"`
	StoreTTL  time.Duration `mapstructure:"store_ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fixeruppera/")

	// Environment variable settings
	v.SetEnvPrefix("FIXERUPPERA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials are also read from their well-known unprefixed names
	if err := v.BindEnv("bunnings.client_id", "FIXERUPPERA_BUNNINGS_CLIENT_ID", "BUNNINGS_CLIENT_ID"); err != nil {
		return nil, fmt.Errorf("error binding env: %w", err)
	}
	if err := v.BindEnv("bunnings.client_secret", "FIXERUPPERA_BUNNINGS_CLIENT_SECRET", "BUNNINGS_CLIENT_SECRET"); err != nil {
		return nil, fmt.Errorf("error binding env: %w", err)
	}

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already in the
// environment are never overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.shutdown_timeout", "15s")

	// Bunnings defaults (sandbox)
	v.SetDefault("bunnings.client_id", "")
	v.SetDefault("bunnings.client_secret", "")
	v.SetDefault("bunnings.token_url", defaultTokenURL)
	v.SetDefault("bunnings.scope", defaultScope)
	v.SetDefault("bunnings.item_base_url", defaultItemBaseURL)
	v.SetDefault("bunnings.pricing_base_url", defaultPricingBaseURL)
	v.SetDefault("bunnings.location_base_url", defaultLocationBaseURL)
	v.SetDefault("bunnings.inventory_base_url", defaultInventoryBaseURL)
	v.SetDefault("bunnings.country", "AU")
	v.SetDefault("bunnings.call_timeout", "10s")
	v.SetDefault("bunnings.max_attempts", 1)
	v.SetDefault("bunnings.retry_backoff", "500ms")
	v.SetDefault("bunnings.requests_per_second", 10)
	v.SetDefault("bunnings.burst", 20)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.search_ttl", "6h")
	v.SetDefault("cache.store_ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
}

// validate validates the configuration. Missing Bunnings credentials are
// allowed; the match routes report them per request.
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.Bunnings.Country == "" {
		return fmt.Errorf("bunnings country is required")
	}

	if config.Bunnings.CallTimeout <= 0 {
		return fmt.Errorf("bunnings call timeout must be positive, got: %s", config.Bunnings.CallTimeout)
	}

	if config.Bunnings.MaxAttempts < 1 {
		return fmt.Errorf("bunnings max attempts must be at least 1, got: %d", config.Bunnings.MaxAttempts)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit cannot be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
