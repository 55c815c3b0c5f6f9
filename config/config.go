// Package config loads runtime settings from the environment. A .env file
// in the working directory is read first when present; real environment
// variables win over it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/KamdynS/weather-agent/llm"
)

// Config holds everything the binaries read from the environment.
type Config struct {
	// Provider selects the LLM backend: "openai" or "anthropic".
	Provider string
	// Model overrides the provider's default model when set.
	Model string

	OpenAIKey    string
	AnthropicKey string

	// RedisAddr enables the Redis conversation store when set.
	RedisAddr string
	// DatabaseURL enables the PostgreSQL conversation store when set.
	// Redis takes precedence if both are configured.
	DatabaseURL string
	// SessionTTL bounds Redis-backed sessions. Zero means no expiry.
	SessionTTL time.Duration

	// MCPSSEURL points the client at a running SSE server instead of
	// spawning one over stdio.
	MCPSSEURL string

	// NWSUserAgent identifies this deployment to the National Weather
	// Service API, which rejects anonymous clients.
	NWSUserAgent string
}

const defaultSessionTTL = 24 * time.Hour

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider:     getEnv("LLM_PROVIDER", string(llm.ProviderOpenAI)),
		Model:        os.Getenv("LLM_MODEL"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		MCPSSEURL:    os.Getenv("MCP_SSE_URL"),
		NWSUserAgent: os.Getenv("NWS_USER_AGENT"),
		SessionTTL:   defaultSessionTTL,
	}

	if ttl := os.Getenv("SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", ttl, err)
		}
		cfg.SessionTTL = d
	}

	return cfg, nil
}

// ValidateLLM checks the provider and model settings. Only binaries that
// talk to an LLM call this; the weather server loads the same config but
// must start regardless of how LLM_PROVIDER is set.
func (c *Config) ValidateLLM() error {
	switch llm.Provider(c.Provider) {
	case llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.Provider)
	}
	if c.Model != "" {
		if err := llm.ValidateModel(c.Model); err != nil {
			return fmt.Errorf("invalid LLM_MODEL: %w", err)
		}
	}
	return nil
}

// APIKey returns the key for the configured provider, which may be empty
// when the variable is unset.
func (c *Config) APIKey() string {
	if llm.Provider(c.Provider) == llm.ProviderAnthropic {
		return c.AnthropicKey
	}
	return c.OpenAIKey
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
