// Package config provides application configuration with multi-source
// priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (HIREVOX_* overrides)
//  2. Config file (~/.hirevox/config.yaml, or ./config.yaml)
//  3. Default values
//
// Main categories:
//   - Generation: provider, model, sampling parameters, retry policy
//   - Validation gates: length bounds, lexical-overlap threshold
//   - Cache: capacity, key prefix length, database path
//
// Errors use sentinel values so callers can check with errors.Is().
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidProvider indicates the generation provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidTemperature indicates a temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxRetries indicates the retry count is out of range.
	ErrInvalidMaxRetries = errors.New("invalid max retries")

	// ErrInvalidLengthBounds indicates the response length bounds are inverted or negative.
	ErrInvalidLengthBounds = errors.New("invalid response length bounds")

	// ErrInvalidOverlap indicates the overlap threshold is outside [0, 1].
	ErrInvalidOverlap = errors.New("invalid overlap threshold")

	// ErrInvalidCacheSize indicates the cache capacity is not positive.
	ErrInvalidCacheSize = errors.New("invalid cache size")
)

// Defaults mirroring the original interview pipeline's tuning.
const (
	DefaultModelName       = "gemma3"
	DefaultOllamaHost      = "http://localhost:11434"
	DefaultMaxNewTokens    = 120
	DefaultTopK            = 40
	DefaultTopP            = 0.9
	DefaultMaxRetries      = 3
	DefaultBaseTemperature = 0.8
	DefaultTemperatureStep = 0.15
	DefaultMinResponseLen  = 10
	DefaultMaxResponseLen  = 300
	DefaultOverlapMax      = 0.7
	DefaultMaxCacheSize    = 50
	DefaultKeyPrefixLen    = 100
)

// Config stores application configuration.
type Config struct {
	// Generation provider and model
	Provider   string `mapstructure:"provider" json:"provider"`     // "ollama" (default) or "googleai"
	ModelName  string `mapstructure:"model_name" json:"model_name"` // bare model name, e.g. "gemma3"
	OllamaHost string `mapstructure:"ollama_host" json:"ollama_host"`

	// Sampling parameters (temperature is governed by the retry policy)
	MaxNewTokens int     `mapstructure:"max_new_tokens" json:"max_new_tokens"`
	TopK         int     `mapstructure:"top_k" json:"top_k"`
	TopP         float64 `mapstructure:"top_p" json:"top_p"`

	// Retry policy
	MaxRetries      int     `mapstructure:"max_retries" json:"max_retries"`
	BaseTemperature float64 `mapstructure:"base_temperature" json:"base_temperature"`
	TemperatureStep float64 `mapstructure:"temperature_step" json:"temperature_step"`

	// Validation gates
	MinResponseLength int     `mapstructure:"min_response_length" json:"min_response_length"`
	MaxResponseLength int     `mapstructure:"max_response_length" json:"max_response_length"`
	OverlapThreshold  float64 `mapstructure:"overlap_threshold" json:"overlap_threshold"`

	// Response cache
	MaxCacheSize int    `mapstructure:"max_cache_size" json:"max_cache_size"`
	KeyPrefixLen int    `mapstructure:"key_prefix_len" json:"key_prefix_len"`
	DBPath       string `mapstructure:"db_path" json:"db_path"` // "" means ~/.hirevox/hirevox.db
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".hirevox")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(configDir, "hirevox.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("provider", "ollama")
	viper.SetDefault("model_name", DefaultModelName)
	viper.SetDefault("ollama_host", DefaultOllamaHost)

	viper.SetDefault("max_new_tokens", DefaultMaxNewTokens)
	viper.SetDefault("top_k", DefaultTopK)
	viper.SetDefault("top_p", DefaultTopP)

	viper.SetDefault("max_retries", DefaultMaxRetries)
	viper.SetDefault("base_temperature", DefaultBaseTemperature)
	viper.SetDefault("temperature_step", DefaultTemperatureStep)

	viper.SetDefault("min_response_length", DefaultMinResponseLen)
	viper.SetDefault("max_response_length", DefaultMaxResponseLen)
	viper.SetDefault("overlap_threshold", DefaultOverlapMax)

	viper.SetDefault("max_cache_size", DefaultMaxCacheSize)
	viper.SetDefault("key_prefix_len", DefaultKeyPrefixLen)
}

// bindEnvVariables binds runtime overrides explicitly.
func bindEnvVariables() {
	// Hardcoded keys cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "HIREVOX_PROVIDER")
	mustBind("model_name", "HIREVOX_MODEL_NAME")
	mustBind("ollama_host", "HIREVOX_OLLAMA_HOST")
	mustBind("db_path", "HIREVOX_DB_PATH")
	mustBind("max_cache_size", "HIREVOX_MAX_CACHE_SIZE")

	// NOTE: GEMINI_API_KEY is read directly by the Genkit googleai plugin,
	// not via Viper.
}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	switch c.Provider {
	case "ollama", "googleai":
	default:
		return fmt.Errorf("%w: %q (supported: ollama, googleai)", ErrInvalidProvider, c.Provider)
	}

	if c.BaseTemperature < 0.0 || c.BaseTemperature > 2.0 {
		return fmt.Errorf("%w: base_temperature must be between 0.0 and 2.0, got %.2f",
			ErrInvalidTemperature, c.BaseTemperature)
	}
	if c.TemperatureStep < 0.0 || c.TemperatureStep > 1.0 {
		return fmt.Errorf("%w: temperature_step must be between 0.0 and 1.0, got %.2f",
			ErrInvalidTemperature, c.TemperatureStep)
	}

	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return fmt.Errorf("%w: must be between 1 and 10, got %d", ErrInvalidMaxRetries, c.MaxRetries)
	}

	if c.MinResponseLength < 1 || c.MinResponseLength >= c.MaxResponseLength {
		return fmt.Errorf("%w: got [%d, %d]", ErrInvalidLengthBounds,
			c.MinResponseLength, c.MaxResponseLength)
	}

	if c.OverlapThreshold < 0.0 || c.OverlapThreshold > 1.0 {
		return fmt.Errorf("%w: must be between 0.0 and 1.0, got %.2f",
			ErrInvalidOverlap, c.OverlapThreshold)
	}

	if c.MaxCacheSize < 1 {
		return fmt.Errorf("%w: must be at least 1, got %d", ErrInvalidCacheSize, c.MaxCacheSize)
	}

	return nil
}
