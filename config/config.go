package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	OpenFoodFacts OpenFoodFactsConfig
	Sampling      SamplingConfig
	Fetch         FetchConfig
	Cache         CacheConfig
	RateLimit     RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SamplingConfig controls how barcodes are drawn from the search results
type SamplingConfig struct {
	Count    int    `mapstructure:"count"`
	PageSize int    `mapstructure:"page_size"`
	Category string `mapstructure:"category"`
}

// FetchConfig controls product resolution
type FetchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// CacheConfig holds dataset snapshot cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP            int `mapstructure:"per_ip"`
	SearchPerMinute  int `mapstructure:"search_per_minute"`
	ProductPerMinute int `mapstructure:"product_per_minute"`
}

// Load loads configuration from a .env file, environment variables and
// config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fooddex/")

	// FOODDEX_SERVER_PORT -> server.port
	v.SetEnvPrefix("FOODDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Open Food Facts defaults
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "fooddex/1.0")
	v.SetDefault("openfoodfacts.timeout", "30s")

	// Sampling defaults
	v.SetDefault("sampling.count", 10)
	v.SetDefault("sampling.page_size", 1000)
	v.SetDefault("sampling.category", "")

	v.SetDefault("fetch.concurrency", 4)

	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.search_per_minute", 10)
	v.SetDefault("ratelimit.product_per_minute", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.OpenFoodFacts.BaseURL) == "" {
		return fmt.Errorf("Open Food Facts base URL is required (set FOODDEX_OPENFOODFACTS_BASE_URL)")
	}

	if config.Sampling.Count < 1 {
		return fmt.Errorf("sampling count must be at least 1, got: %d", config.Sampling.Count)
	}

	if config.Sampling.PageSize < 1 || config.Sampling.PageSize > 1000 {
		return fmt.Errorf("sampling page size must be between 1 and 1000, got: %d", config.Sampling.PageSize)
	}

	if config.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch concurrency must be at least 1, got: %d", config.Fetch.Concurrency)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %v", config.Cache.TTL)
	}

	if config.RateLimit.PerIP <= 0 || config.RateLimit.SearchPerMinute <= 0 || config.RateLimit.ProductPerMinute <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}

	return nil
}

// loadEnvFile copies KEY=VALUE pairs from ./.env into the process
// environment. Missing file is not an error and variables that are already
// set win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
