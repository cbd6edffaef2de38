// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Scraping ScrapingConfig `mapstructure:"scraping"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// LLMConfig selects and configures the model backend.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"` // openai | anthropic
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
}

// ScrapingConfig configures the retrieval client and its providers.
type ScrapingConfig struct {
	BaseURL         string   `mapstructure:"base_url"`
	APIKey          string   `mapstructure:"api_key"`
	Timeout         int      `mapstructure:"timeout"` // milliseconds
	RetryAttempts   int      `mapstructure:"retry_attempts"`
	Parallelism     int      `mapstructure:"parallelism"`
	AllowedDomains  []string `mapstructure:"allowed_domains"`
	BreakerCooldown int      `mapstructure:"breaker_cooldown"` // milliseconds
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	Backend         string      `mapstructure:"backend"` // memory | redis
	MaxSize         int         `mapstructure:"max_size"`
	DefaultTTL      int         `mapstructure:"default_ttl"`      // milliseconds
	CleanupInterval int         `mapstructure:"cleanup_interval"` // milliseconds
	MinConfidence   float64     `mapstructure:"min_confidence"`
	Redis           RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PipelineConfig holds the knobs shared by planner and synthesizer.
type PipelineConfig struct {
	MaxPagesPerQuery int    `mapstructure:"max_pages_per_query"`
	MaxContentLength int    `mapstructure:"max_content_length"`
	RoutingPolicy    string `mapstructure:"routing_policy"` // static_catalog | forced_dynamic | hybrid
	CatalogPath      string `mapstructure:"catalog_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
