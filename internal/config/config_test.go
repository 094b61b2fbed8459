// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment parsing, TOML overlay precedence and validation
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var orbitEnvKeys = []string{
	"ORBIT_CONFIG", "ORBIT_LLM_PROVIDER", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	"ORBIT_CHAT_MODEL", "ORBIT_LLM_TIMEOUT", "ORBIT_LLM_RATE_LIMIT", "ORBIT_STORE", "ORBIT_DB_PATH",
	"CHARM_HOST", "CHARM_DB", "CHARM_AUTO_SYNC", "ORBIT_CACHE_ENABLED",
	"ORBIT_CACHE_CARD_TTL", "ORBIT_CACHE_MAGNET_TTL", "ORBIT_CACHE_EMBEDDING_TTL",
	"ORBIT_LOG_LEVEL", "ORBIT_SIMILARITY_CONCURRENCY", "ORBIT_METRICS_ADDR",
}

// clearEnv blanks every key Load reads; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range orbitEnvKeys {
		t.Setenv(k, "")
	}
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orbit.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Provider != ProviderClaude {
		t.Errorf("Provider = %s, want claude", cfg.Provider)
	}
	if cfg.ChatModel != DefaultClaudeModel {
		t.Errorf("ChatModel = %s, want %s", cfg.ChatModel, DefaultClaudeModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Store = %s, want sqlite", cfg.Store)
	}
	if cfg.CharmHost != "charm.2389.dev" {
		t.Errorf("CharmHost = %s, want charm.2389.dev", cfg.CharmHost)
	}
	if cfg.CharmDBName != "orbit" {
		t.Errorf("CharmDBName = %s, want orbit", cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
	if !cfg.CacheEnabled {
		t.Error("CacheEnabled = false, want true")
	}
	if cfg.CardTTL != 0 || cfg.MagnetTTL != 0 || cfg.EmbeddingTTL != 0 {
		t.Error("cache TTL overrides should default to zero")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.SimilarityConcurrency != 8 {
		t.Errorf("SimilarityConcurrency = %d, want 8", cfg.SimilarityConcurrency)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", cfg.ConfigFile)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ORBIT_LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("ORBIT_LLM_TIMEOUT", "60s")
	t.Setenv("ORBIT_LLM_RATE_LIMIT", "2.5")
	t.Setenv("ORBIT_STORE", "charm")
	t.Setenv("CHARM_HOST", "custom.charm.sh")
	t.Setenv("CHARM_DB", "test_db")
	t.Setenv("CHARM_AUTO_SYNC", "false")
	t.Setenv("ORBIT_CACHE_ENABLED", "0")
	t.Setenv("ORBIT_CACHE_MAGNET_TTL", "10m")
	t.Setenv("ORBIT_LOG_LEVEL", "DEBUG")
	t.Setenv("ORBIT_SIMILARITY_CONCURRENCY", "16")
	t.Setenv("ORBIT_METRICS_ADDR", ":9464")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %s, want openai", cfg.Provider)
	}
	if cfg.ChatModel != DefaultOpenAIModel {
		t.Errorf("ChatModel = %s, want provider default %s", cfg.ChatModel, DefaultOpenAIModel)
	}
	if cfg.APIKey() != "test-key" {
		t.Errorf("APIKey() = %s, want test-key", cfg.APIKey())
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.RateLimit != 2.5 {
		t.Errorf("RateLimit = %v, want 2.5", cfg.RateLimit)
	}
	if cfg.Store != StoreCharm {
		t.Errorf("Store = %s, want charm", cfg.Store)
	}
	if cfg.CharmHost != "custom.charm.sh" || cfg.CharmDBName != "test_db" {
		t.Errorf("charm = %s/%s", cfg.CharmHost, cfg.CharmDBName)
	}
	if cfg.AutoSync {
		t.Error("AutoSync = true, want false")
	}
	if cfg.CacheEnabled {
		t.Error("CacheEnabled = true, want false")
	}
	if cfg.MagnetTTL != 10*time.Minute {
		t.Errorf("MagnetTTL = %v, want 10m", cfg.MagnetTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.SimilarityConcurrency != 16 {
		t.Errorf("SimilarityConcurrency = %d, want 16", cfg.SimilarityConcurrency)
	}
	if cfg.MetricsAddr != ":9464" {
		t.Errorf("MetricsAddr = %q, want :9464", cfg.MetricsAddr)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
[llm]
provider = "openai"
model = "gpt-4o"
timeout = "45s"
rate_limit = 1.0

[prompts]
magnet = "Score each card."

[store]
backend = "none"

[charm]
auto_sync = false

[cache]
enabled = false
card_ttl = "24h"

[similarity]
concurrency = 4

[metrics]
addr = "127.0.0.1:9100"
`)
	t.Setenv("ORBIT_CONFIG", path)
	// Environment wins over the file
	t.Setenv("ORBIT_CHAT_MODEL", "gpt-4.1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %s, want openai", cfg.Provider)
	}
	if cfg.ChatModel != "gpt-4.1" {
		t.Errorf("ChatModel = %s, want env override gpt-4.1", cfg.ChatModel)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.RateLimit != 1 {
		t.Errorf("RateLimit = %v, want 1", cfg.RateLimit)
	}
	if cfg.MagnetPrompt != "Score each card." {
		t.Errorf("MagnetPrompt = %q", cfg.MagnetPrompt)
	}
	if cfg.CardPrompt != "" {
		t.Errorf("CardPrompt = %q, want empty", cfg.CardPrompt)
	}
	if cfg.Store != StoreNone {
		t.Errorf("Store = %s, want none", cfg.Store)
	}
	if cfg.AutoSync || cfg.CacheEnabled {
		t.Error("booleans from file were not applied")
	}
	if cfg.CardTTL != 24*time.Hour {
		t.Errorf("CardTTL = %v, want 24h", cfg.CardTTL)
	}
	if cfg.SimilarityConcurrency != 4 {
		t.Errorf("SimilarityConcurrency = %d, want 4", cfg.SimilarityConcurrency)
	}
	if cfg.MetricsAddr != "127.0.0.1:9100" {
		t.Errorf("MetricsAddr = %q, want file value", cfg.MetricsAddr)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestLoad_ConfigFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		missing bool
		wantErr string
	}{
		{name: "missing file", missing: true, wantErr: "failed to read config file"},
		{name: "bad toml", body: "[llm\nprovider=", wantErr: "failed to parse TOML"},
		{name: "bad duration", body: "[llm]\ntimeout = \"soon\"", wantErr: "invalid llm.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "absent.toml")
			if !tt.missing {
				path = writeConfigFile(t, tt.body)
			}
			t.Setenv("ORBIT_CONFIG", path)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Provider:              ProviderClaude,
			Store:                 StoreSQLite,
			Timeout:               time.Second,
			LogLevel:              "info",
			SimilarityConcurrency: 8,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate() on valid config = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider = "gemini" }},
		{"unknown store", func(c *Config) { c.Store = "redis" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }},
		{"concurrency too low", func(c *Config) { c.SimilarityConcurrency = 0 }},
		{"concurrency too high", func(c *Config) { c.SimilarityConcurrency = 65 }},
		{"negative ttl", func(c *Config) { c.EmbeddingTTL = -time.Second }},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestAPIKey(t *testing.T) {
	cfg := &Config{Provider: ProviderClaude, OpenAIKey: "o", AnthropicKey: "a"}
	if cfg.APIKey() != "a" {
		t.Errorf("APIKey() = %s, want a", cfg.APIKey())
	}
	cfg.Provider = ProviderOpenAI
	if cfg.APIKey() != "o" {
		t.Errorf("APIKey() = %s, want o", cfg.APIKey())
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
