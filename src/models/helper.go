package models

import (
	"context"
	"fmt"
	"strings"
)

// KnownOllamaModels are the local models the chat front-ends offer by default.
var KnownOllamaModels = []string{"llama3.2", "llama3.1", "mistral", "phi3", "gemma2"}

// NormalizeProvider maps provider aliases to their canonical name.
func NormalizeProvider(provider string) string {
	switch p := strings.ToLower(strings.TrimSpace(provider)); p {
	case "", "ollama":
		return "ollama"
	case "gemini", "google":
		return "gemini"
	case "anthropic", "claude":
		return "anthropic"
	default:
		return p
	}
}

// ValidateProfile reports the first invalid setting in p.
func ValidateProfile(p Profile) error {
	if strings.TrimSpace(p.Model) == "" {
		return fmt.Errorf("model name is required")
	}
	if p.Temperature < 0 || p.Temperature > 1 {
		return fmt.Errorf("temperature %.2f out of range [0, 1]", p.Temperature)
	}
	return nil
}

// NewLLMProvider returns a concrete LLM for the profile, wrapped in a
// CachedLLM when the profile asks for one.
func NewLLMProvider(ctx context.Context, p Profile) (LLM, error) {
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}

	var (
		llm LLM
		err error
	)
	switch NormalizeProvider(p.Provider) {
	case "openai":
		llm = NewOpenAILLM(p)
	case "gemini":
		llm, err = NewGeminiLLM(ctx, p)
	case "ollama":
		llm, err = NewOllamaLLM(p)
	case "anthropic":
		llm = NewAnthropicLLM(p)
	case "dummy":
		llm = NewDummyLLM("")
	default:
		return nil, fmt.Errorf("unknown provider: %s", p.Provider)
	}
	if err != nil {
		return nil, err
	}

	if p.CacheSize > 0 {
		return NewCachedLLM(llm, p.CacheSize, p.CacheTTL), nil
	}
	return TryCreateCachedLLM(llm), nil
}

// CheckHealth pings llm when it supports health checks.
func CheckHealth(ctx context.Context, llm LLM) error {
	hc, ok := llm.(HealthChecker)
	if !ok {
		return nil
	}
	return hc.Ping(ctx)
}
