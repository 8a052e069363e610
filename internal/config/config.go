// Package config loads civic server settings from an optional YAML file,
// a .env file and the process environment.
package config

import (
	"fmt"
	"time"
)

// Config is the full server configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	GovTrack GovTrackConfig `koanf:"govtrack"`
	NewsAPI  NewsAPIConfig  `koanf:"newsapi"`
	OpenAI   OpenAIConfig   `koanf:"openai"`
	Feeds    []FeedConfig   `koanf:"feeds"`
	Cache    CacheConfig    `koanf:"cache"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Import   ImportConfig   `koanf:"import"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Env             string        `koanf:"env"`
	CORSOrigins     string        `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// ProxyHeader names the header carrying the client address behind a
	// reverse proxy, e.g. X-Forwarded-For. Empty uses the socket address.
	ProxyHeader     string        `koanf:"proxy_header"`
}

// Addr returns the host:port the server listens on
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GovTrackConfig configures the bill and legislator adapter
type GovTrackConfig struct {
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second
	Burst     int           `koanf:"burst"`
}

// NewsAPIConfig configures the news adapter
type NewsAPIConfig struct {
	APIKey  Secret        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Country string        `koanf:"country"`
	Timeout time.Duration `koanf:"timeout"`
}

// OpenAIConfig configures the assistant
type OpenAIConfig struct {
	APIKey  Secret `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"`
}

// FeedConfig is one RSS source for local news
type FeedConfig struct {
	Name     string `koanf:"name"`
	URL      string `koanf:"url"`
	Location string `koanf:"location"`
}

// CacheConfig configures the adapter response cache
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// DatabaseConfig configures the optional Postgres metrics sink
type DatabaseConfig struct {
	URL             Secret        `koanf:"url"`
	MetricsInterval time.Duration `koanf:"metrics_interval"`
}

// LogConfig configures zap
type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

// ImportConfig controls warming the store from the adapters
type ImportConfig struct {
	WarmOnStart     bool          `koanf:"warm_on_start"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	States          []string      `koanf:"states"`
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Server.Env {
	case "development", "production":
	default:
		return fmt.Errorf("server.env must be development or production, got %q", c.Server.Env)
	}
	if c.GovTrack.RateLimit < 0 {
		return fmt.Errorf("govtrack.rate_limit cannot be negative")
	}
	for i, f := range c.Feeds {
		if f.URL == "" {
			return fmt.Errorf("feeds[%d]: url is required", i)
		}
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
