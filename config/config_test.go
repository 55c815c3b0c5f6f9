package config

import (
	"testing"

	"github.com/KamdynS/weather-agent/llm"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("SESSION_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != string(llm.ProviderOpenAI) {
		t.Errorf("expected openai default, got %q", cfg.Provider)
	}
	if cfg.SessionTTL != defaultSessionTTL {
		t.Errorf("unexpected default TTL %v", cfg.SessionTTL)
	}
}

func TestValidateLLMRejectsUnknownProvider(t *testing.T) {
	cfg := &Config{Provider: "cohere"}
	if err := cfg.ValidateLLM(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestValidateLLMRejectsUnknownModel(t *testing.T) {
	cfg := &Config{Provider: "openai", Model: "gpt-99"}
	if err := cfg.ValidateLLM(); err == nil {
		t.Fatal("expected error for unknown model")
	}
}

// An LLM misconfiguration in the environment must not keep Load from
// succeeding: the weather server shares this config and never builds
// an LLM client.
func TestLoadToleratesLLMMisconfig(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "cohere")
	t.Setenv("LLM_MODEL", "gpt-99")
	t.Setenv("SESSION_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.ValidateLLM(); err == nil {
		t.Fatal("expected ValidateLLM to reject the settings")
	}
}

func TestLoadSessionTTL(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SessionTTL.Minutes() != 90 {
		t.Errorf("unexpected TTL %v", cfg.SessionTTL)
	}

	t.Setenv("SESSION_TTL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed TTL")
	}
}

func TestAPIKeyPerProvider(t *testing.T) {
	cfg := &Config{Provider: "openai", OpenAIKey: "sk-oai", AnthropicKey: "sk-ant"}
	if cfg.APIKey() != "sk-oai" {
		t.Errorf("unexpected key %q", cfg.APIKey())
	}
	cfg.Provider = "anthropic"
	if cfg.APIKey() != "sk-ant" {
		t.Errorf("unexpected key %q", cfg.APIKey())
	}
}
