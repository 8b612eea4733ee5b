package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the portfolio assistant
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Widget    WidgetConfig    `mapstructure:"widget"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DatabaseConfig holds knowledge store configuration
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"` // sqlite, postgres, none
	Path       string `mapstructure:"path"`
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// GeminiConfig holds generation API configuration
type GeminiConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	Model           string        `mapstructure:"model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	TopP            float64       `mapstructure:"top_p"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// KnowledgeConfig holds fallback knowledge base configuration
type KnowledgeConfig struct {
	FallbackPath string `mapstructure:"fallback_path"`
}

// CacheConfig holds the optional Redis cache in front of the knowledge store
type CacheConfig struct {
	RedisURL string        `mapstructure:"redis_url"` // empty disables the cache
	Key      string        `mapstructure:"key"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// WidgetConfig holds configuration for the terminal chat widget
type WidgetConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	ScrollDelay time.Duration `mapstructure:"scroll_delay"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"` // also write to this rotated file
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
}

// TracingConfig holds OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"` // OTLP/HTTP; empty exports to stdout
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if specified
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	// Read config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindLegacyEnv accepts the variable names used by the hosted deployment
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"gemini.api_key":       {"PORTFOLIO_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"database.url":         {"PORTFOLIO_DATABASE_URL", "SUPABASE_DB_URL", "DATABASE_URL"},
		"database.service_key": {"PORTFOLIO_DATABASE_SERVICE_KEY", "SUPABASE_SERVICE_ROLE_KEY"},
		"cache.redis_url":      {"PORTFOLIO_CACHE_REDIS_URL", "REDIS_URL"},
		"tracing.endpoint":     {"PORTFOLIO_TRACING_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", 30*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "./data/portfolio.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.service_key", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.max_output_tokens", 500)
	v.SetDefault("gemini.top_p", 0.9)
	v.SetDefault("gemini.timeout", 25*time.Second)

	v.SetDefault("knowledge.fallback_path", "")

	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key", "portfolio:knowledge")
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("widget.endpoint", "http://localhost:8080/chat")
	v.SetDefault("widget.scroll_delay", 100*time.Millisecond)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "portfolio-assistant")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// Validate checks values that cannot be defaulted. A missing Gemini API key
// is not an error here; each chat request reports it instead.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres driver")
		}
	case DriverNone:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be within [0, 1]: %g", c.Tracing.SampleRatio)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	return nil
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
