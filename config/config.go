package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Groq       GroqConfig
	Dictionary DictionaryConfig
	Resolver   ResolverConfig
	Pipeline   PipelineConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GroqConfig holds semantic-fallback classifier configuration
type GroqConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
	Enabled bool          `mapstructure:"enabled"`
}

// DictionaryConfig holds food dictionary configuration
type DictionaryConfig struct {
	CSVPath string `mapstructure:"csv_path"` // optional extra entries merged at startup
}

// ResolverConfig holds resolution waterfall configuration
type ResolverConfig struct {
	SimilarityFloor    float64 `mapstructure:"similarity_floor"`
	EnableDebugLogging bool    `mapstructure:"debug"`
}

// PipelineConfig holds extraction and emissions configuration
type PipelineConfig struct {
	UnknownLogPath string  `mapstructure:"unknown_log_path"`
	MaxItemPrice   float64 `mapstructure:"max_item_price"`
	EmissionsCap   float64 `mapstructure:"emissions_cap"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/emissionary/")

	// Environment variable settings
	v.SetEnvPrefix("EMISSIONARY")
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
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Groq defaults. The empty api_key default registers the key so the
	// env var binds during Unmarshal.
	v.SetDefault("groq.api_key", "")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "llama-3.1-8b-instant")
	v.SetDefault("groq.timeout", "30s")
	v.SetDefault("groq.enabled", true)

	// Dictionary defaults
	v.SetDefault("dictionary.csv_path", "")

	// Resolver defaults
	v.SetDefault("resolver.similarity_floor", 0.8)
	v.SetDefault("resolver.debug", false)

	// Pipeline defaults
	v.SetDefault("pipeline.unknown_log_path", "unknown_items.log")
	v.SetDefault("pipeline.max_item_price", 100.0)
	v.SetDefault("pipeline.emissions_cap", 50.0)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Groq.Enabled && config.Groq.APIKey == "" {
		return fmt.Errorf("Groq API key is required when the classifier is enabled (set EMISSIONARY_GROQ_API_KEY or groq.enabled=false)")
	}

	if config.Resolver.SimilarityFloor < 0 || config.Resolver.SimilarityFloor > 1 {
		return fmt.Errorf("similarity floor must be in [0,1], got: %v", config.Resolver.SimilarityFloor)
	}

	if config.Pipeline.MaxItemPrice <= 0 {
		return fmt.Errorf("max item price must be positive, got: %v", config.Pipeline.MaxItemPrice)
	}

	if config.Pipeline.EmissionsCap <= 0 {
		return fmt.Errorf("emissions cap must be positive, got: %v", config.Pipeline.EmissionsCap)
	}

	return nil
}
