package config

import (
	"fmt"
	"strings"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

var knownProviders = map[string]bool{"ollama": true, "openai": true, "anthropic": true, "gemini": true, "dummy": true}

// Validate checks a normalized config.
func Validate(cfg *Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if !knownProviders[cfg.Model.Provider] {
		add("model.provider", fmt.Sprintf("unknown provider %q", cfg.Model.Provider))
	}
	if t := cfg.Model.Temperature; t != nil && (*t < 0 || *t > 1) {
		add("model.temperature", fmt.Sprintf("%.2f out of range [0, 1]", *t))
	}
	if cfg.Model.CacheSize < 0 {
		add("model.cache_size", "must not be negative")
	}
	if cfg.Agent.MaxIterations < 1 {
		add("agent.max_iterations", "must be at least 1")
	}
	if cfg.Agent.EarlyStopping != "force" && cfg.Agent.EarlyStopping != "generate" {
		add("agent.early_stopping", fmt.Sprintf("must be force or generate, got %q", cfg.Agent.EarlyStopping))
	}
	if cfg.Agent.MemoryWindow < 0 {
		add("agent.memory_window", "must not be negative")
	}
	if !cfg.Search.Disabled {
		if cfg.Search.Provider != "duckduckgo" && cfg.Search.Provider != "ddg" && cfg.Search.Provider != "ollama" {
			add("search.provider", fmt.Sprintf("unknown provider %q", cfg.Search.Provider))
		}
		if cfg.Search.MaxResults < 1 {
			add("search.max_results", "must be at least 1")
		}
	}
	if cfg.UTCP.MaxTools < 0 {
		add("utcp.max_tools", "must not be negative")
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}
