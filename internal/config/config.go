// ABOUTME: Centralized configuration for the orbit CLI and MCP server
// ABOUTME: Defaults, then an optional TOML file, then environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Providers and stores accepted by Validate
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"

	StoreSQLite = "sqlite"
	StoreCharm  = "charm"
	StoreNone   = "none"
)

// Default chat models per provider
const (
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultClaudeModel = "claude-sonnet-4-20250514"
)

// Config holds all configuration for orbit
type Config struct {
	// LLM settings
	Provider     string
	OpenAIKey    string
	AnthropicKey string
	ChatModel    string
	Timeout      time.Duration
	RateLimit    float64 // model calls per second; zero means unlimited

	// Prompt overrides; empty keeps the built-in prompt
	FeaturePrompt string
	CardPrompt    string
	MagnetPrompt  string

	// Vector store settings
	Store  string
	DBPath string

	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// Cache settings; zero TTLs keep the namespace defaults
	CacheEnabled bool
	CardTTL      time.Duration
	MagnetTTL    time.Duration
	EmbeddingTTL time.Duration

	LogLevel              string
	SimilarityConcurrency int

	// MetricsAddr enables the Prometheus listener when non-empty
	MetricsAddr string

	// ConfigFile is the TOML file that was applied, if any
	ConfigFile string
}

// fileConfig mirrors the optional TOML file named by ORBIT_CONFIG
type fileConfig struct {
	LLM struct {
		Provider  string  `toml:"provider"`
		Model     string  `toml:"model"`
		Timeout   string  `toml:"timeout"`
		RateLimit float64 `toml:"rate_limit"`
	} `toml:"llm"`
	Prompts struct {
		Features string `toml:"features"`
		Card     string `toml:"card"`
		Magnet   string `toml:"magnet"`
	} `toml:"prompts"`
	Store struct {
		Backend string `toml:"backend"`
		Path    string `toml:"path"`
	} `toml:"store"`
	Charm struct {
		Host     string `toml:"host"`
		DB       string `toml:"db"`
		AutoSync *bool  `toml:"auto_sync"`
	} `toml:"charm"`
	Cache struct {
		Enabled      *bool  `toml:"enabled"`
		CardTTL      string `toml:"card_ttl"`
		MagnetTTL    string `toml:"magnet_ttl"`
		EmbeddingTTL string `toml:"embedding_ttl"`
	} `toml:"cache"`
	Similarity struct {
		Concurrency int `toml:"concurrency"`
	} `toml:"similarity"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Metrics struct {
		Addr string `toml:"addr"`
	} `toml:"metrics"`
}

// Load builds the configuration. Environment variables win over the file.
func Load() (*Config, error) {
	cfg := &Config{
		Provider:              ProviderClaude,
		Timeout:               30 * time.Second,
		Store:                 StoreSQLite,
		CharmHost:             "charm.2389.dev",
		CharmDBName:           "orbit",
		AutoSync:              true,
		CacheEnabled:          true,
		LogLevel:              "info",
		SimilarityConcurrency: 8,
	}

	if path := os.Getenv("ORBIT_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Provider = strings.ToLower(getEnv("ORBIT_LLM_PROVIDER", cfg.Provider))
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.AnthropicKey = getEnv("ANTHROPIC_API_KEY", cfg.AnthropicKey)
	cfg.ChatModel = getEnv("ORBIT_CHAT_MODEL", cfg.ChatModel)
	cfg.Timeout = getEnvDuration("ORBIT_LLM_TIMEOUT", cfg.Timeout)
	cfg.RateLimit = getEnvFloat("ORBIT_LLM_RATE_LIMIT", cfg.RateLimit)
	cfg.Store = strings.ToLower(getEnv("ORBIT_STORE", cfg.Store))
	cfg.DBPath = getEnv("ORBIT_DB_PATH", cfg.DBPath)
	cfg.CharmHost = getEnv("CHARM_HOST", cfg.CharmHost)
	cfg.CharmDBName = getEnv("CHARM_DB", cfg.CharmDBName)
	cfg.AutoSync = getEnvBool("CHARM_AUTO_SYNC", cfg.AutoSync)
	cfg.CacheEnabled = getEnvBool("ORBIT_CACHE_ENABLED", cfg.CacheEnabled)
	cfg.CardTTL = getEnvDuration("ORBIT_CACHE_CARD_TTL", cfg.CardTTL)
	cfg.MagnetTTL = getEnvDuration("ORBIT_CACHE_MAGNET_TTL", cfg.MagnetTTL)
	cfg.EmbeddingTTL = getEnvDuration("ORBIT_CACHE_EMBEDDING_TTL", cfg.EmbeddingTTL)
	cfg.LogLevel = strings.ToLower(getEnv("ORBIT_LOG_LEVEL", cfg.LogLevel))
	cfg.SimilarityConcurrency = getEnvInt("ORBIT_SIMILARITY_CONCURRENCY", cfg.SimilarityConcurrency)
	cfg.MetricsAddr = getEnv("ORBIT_METRICS_ADDR", cfg.MetricsAddr)

	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultModel(cfg.Provider)
	}

	return cfg, cfg.Validate()
}

// DefaultModel returns the chat model used when none is configured
func DefaultModel(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultClaudeModel
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderClaude:
	default:
		return fmt.Errorf("ORBIT_LLM_PROVIDER must be openai or claude, got %q", c.Provider)
	}
	switch c.Store {
	case StoreSQLite, StoreCharm, StoreNone:
	default:
		return fmt.Errorf("ORBIT_STORE must be sqlite, charm or none, got %q", c.Store)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("ORBIT_LLM_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("ORBIT_LLM_RATE_LIMIT must not be negative, got %v", c.RateLimit)
	}
	if c.SimilarityConcurrency < 1 || c.SimilarityConcurrency > 64 {
		return fmt.Errorf("ORBIT_SIMILARITY_CONCURRENCY must be 1-64, got %d", c.SimilarityConcurrency)
	}
	for name, ttl := range map[string]time.Duration{
		"card":      c.CardTTL,
		"magnet":    c.MagnetTTL,
		"embedding": c.EmbeddingTTL,
	} {
		if ttl < 0 {
			return fmt.Errorf("%s cache TTL must not be negative, got %v", name, ttl)
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("ORBIT_LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

// APIKey returns the key for the configured provider
func (c *Config) APIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAIKey
	}
	return c.AnthropicKey
}

// applyFile overlays values from a TOML file onto c
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}

	setString(&c.Provider, fc.LLM.Provider)
	setString(&c.ChatModel, fc.LLM.Model)
	setString(&c.FeaturePrompt, fc.Prompts.Features)
	setString(&c.CardPrompt, fc.Prompts.Card)
	setString(&c.MagnetPrompt, fc.Prompts.Magnet)
	setString(&c.Store, fc.Store.Backend)
	setString(&c.DBPath, fc.Store.Path)
	setString(&c.CharmHost, fc.Charm.Host)
	setString(&c.CharmDBName, fc.Charm.DB)
	setString(&c.LogLevel, fc.Log.Level)
	setString(&c.MetricsAddr, fc.Metrics.Addr)
	if fc.Charm.AutoSync != nil {
		c.AutoSync = *fc.Charm.AutoSync
	}
	if fc.Cache.Enabled != nil {
		c.CacheEnabled = *fc.Cache.Enabled
	}
	if fc.LLM.RateLimit != 0 {
		c.RateLimit = fc.LLM.RateLimit
	}
	if fc.Similarity.Concurrency != 0 {
		c.SimilarityConcurrency = fc.Similarity.Concurrency
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"llm.timeout", fc.LLM.Timeout, &c.Timeout},
		{"cache.card_ttl", fc.Cache.CardTTL, &c.CardTTL},
		{"cache.magnet_ttl", fc.Cache.MagnetTTL, &c.MagnetTTL},
		{"cache.embedding_ttl", fc.Cache.EmbeddingTTL, &c.EmbeddingTTL},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s in '%s': %w", d.name, path, err)
		}
		*d.dst = parsed
	}

	c.ConfigFile = path
	return nil
}

// Helper functions
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
