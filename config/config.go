package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	SearchAPI SearchAPIConfig `mapstructure:"searchapi"`
	Cache     CacheConfig
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Analysis  AnalysisConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchAPIConfig holds assortment search API configuration. HostTemplate
// resolves the per-environment host; "{env}" is replaced with the deployment
// target name.
type SearchAPIConfig struct {
	HostTemplate string        `mapstructure:"host_template"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // only "memory" for now
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// AnalysisConfig holds analysis-related configuration
type AnalysisConfig struct {
	MaxResultSize      int  `mapstructure:"max_result_size"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/assortcheck/")

	// Environment variable settings
	v.SetEnvPrefix("ASSORTCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Search API defaults
	v.SetDefault("searchapi.host_template", "http://dlp-{env}-search-api.retail.adeptmind.ai:4000")
	v.SetDefault("searchapi.timeout", "30s")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "5m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Analysis defaults
	v.SetDefault("analysis.max_result_size", 1000)
	v.SetDefault("analysis.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.SearchAPI.HostTemplate == "" {
		return fmt.Errorf("search API host template is required (set ASSORTCHECK_SEARCHAPI_HOST_TEMPLATE)")
	}

	if config.SearchAPI.Timeout <= 0 {
		return fmt.Errorf("search API timeout must be positive, got: %s", config.SearchAPI.Timeout)
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.Analysis.MaxResultSize < 1 {
		return fmt.Errorf("max result size must be at least 1, got: %d", config.Analysis.MaxResultSize)
	}

	return nil
}
