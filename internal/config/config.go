// Package config holds the runtime configuration and loads it through viper
// from defaults, the config file, CONCEPTOR_* environment variables and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/conceptor/internal/llm"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CONCEPTOR"

type Config struct {
	Store        StoreConfig       `yaml:"store" mapstructure:"store"`
	Evaluator    EvaluatorConfig   `yaml:"evaluator" mapstructure:"evaluator"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Concept      ConceptConfig     `yaml:"concept" mapstructure:"concept"`
	Log          LogConfig         `yaml:"log" mapstructure:"log"`
}

type StoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
}

type EvaluatorConfig struct {
	// Provider is "openai", "anthropic", "ollama" or empty to disable.
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskDir   string        `yaml:"disk_dir" mapstructure:"disk_dir"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

type ConceptConfig struct {
	ExpiryPeriodDays int `yaml:"expiry_period_days" mapstructure:"expiry_period_days"`
}

type LogConfig struct {
	Mode  string `yaml:"mode" mapstructure:"mode"`
	Level string `yaml:"level" mapstructure:"level"`
}

// HomeDir is where the config file, database and disk cache live by default.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".conceptor"
	}
	return filepath.Join(home, ".conceptor")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	base := HomeDir()
	ev := llm.DefaultConfig()
	return Config{
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join(base, "concepts.db"),
		},
		Evaluator: EvaluatorConfig{
			Provider:    ev.Provider,
			Model:       ev.Model,
			Timeout:     ev.Timeout,
			MaxTokens:   ev.MaxTokens,
			Temperature: ev.Temperature,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: time.Hour,
			DiskDir:   filepath.Join(base, "cache"),
			DiskTTL:   7 * 24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Concept: ConceptConfig{
			ExpiryPeriodDays: 30,
		},
		Log: LogConfig{
			Mode:  "dev",
			Level: "info",
		},
	}
}

// SetDefaults registers every default with v so env variables can override
// keys that appear in no config file.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("evaluator.provider", d.Evaluator.Provider)
	v.SetDefault("evaluator.model", d.Evaluator.Model)
	v.SetDefault("evaluator.api_key", d.Evaluator.APIKey)
	v.SetDefault("evaluator.base_url", d.Evaluator.BaseURL)
	v.SetDefault("evaluator.timeout", d.Evaluator.Timeout)
	v.SetDefault("evaluator.max_tokens", d.Evaluator.MaxTokens)
	v.SetDefault("evaluator.temperature", d.Evaluator.Temperature)
	v.SetDefault("evaluator.http_proxy", "")
	v.SetDefault("evaluator.https_proxy", "")
	v.SetDefault("evaluator.no_proxy", "")
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.memory_ttl", d.Cache.MemoryTTL)
	v.SetDefault("cache.disk_dir", d.Cache.DiskDir)
	v.SetDefault("cache.disk_ttl", d.Cache.DiskTTL)
	v.SetDefault("rate_limiting.requests_per_second", d.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst", d.RateLimiting.Burst)
	v.SetDefault("concurrency.workers", d.Concurrency.Workers)
	v.SetDefault("concept.expiry_period_days", d.Concept.ExpiryPeriodDays)
	v.SetDefault("log.mode", d.Log.Mode)
	v.SetDefault("log.level", d.Log.Level)
}

// BindEnv makes CONCEPTOR_EVALUATOR_API_KEY style variables visible to v.
// OPENAI_API_KEY and ANTHROPIC_API_KEY are honoured as fallbacks for the key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("evaluator.api_key", EnvPrefix+"_EVALUATOR_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("evaluator.base_url", EnvPrefix+"_EVALUATOR_BASE_URL", "OLLAMA_BASE_URL")
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot work with.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.driver must be memory or sqlite, got %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for the sqlite driver")
	}
	if c.Concept.ExpiryPeriodDays <= 0 {
		return fmt.Errorf("concept.expiry_period_days must be positive, got %d", c.Concept.ExpiryPeriodDays)
	}
	if c.Concurrency.Workers <= 0 {
		return fmt.Errorf("concurrency.workers must be positive, got %d", c.Concurrency.Workers)
	}
	return nil
}

// LLM converts the evaluator section to the llm package's config.
func (c Config) LLM() llm.Config {
	e := c.Evaluator
	return llm.Config{
		Provider:    e.Provider,
		Model:       e.Model,
		APIKey:      e.APIKey,
		BaseURL:     e.BaseURL,
		Timeout:     e.Timeout,
		MaxTokens:   e.MaxTokens,
		Temperature: e.Temperature,
		HTTPProxy:   e.HTTPProxy,
		HTTPSProxy:  e.HTTPSProxy,
		NoProxy:     e.NoProxy,
	}
}
