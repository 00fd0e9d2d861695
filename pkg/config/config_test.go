package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curling.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestDefault(t *testing.T) {
	cfg := Default()
	p := cfg.Profile()
	if p.Provider != "ollama" || p.Model != "llama3.2" || p.Temperature != 0.7 || p.Timeout != 120*time.Second {
		t.Fatalf("unexpected profile %+v", p)
	}
	if cfg.Agent.MaxIterations != 3 || cfg.Agent.EarlyStopping != "force" || cfg.Agent.ToolTimeout != 20*time.Second {
		t.Fatalf("unexpected agent config %+v", cfg.Agent)
	}
	if cfg.Search.Provider != "duckduckgo" || cfg.Search.MaxResults != 5 || cfg.Search.CacheSize != 128 {
		t.Fatalf("unexpected search config %+v", cfg.Search)
	}
	if err := Validate(&cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("CURLING_MODEL", "")
	t.Setenv("CURLING_PROVIDER", "")
	t.Setenv("CURLING_TEMPERATURE", "")
	t.Setenv("CURLING_SEARCH_PROVIDER", "")
	t.Setenv("CURLING_MAX_ITERATIONS", "")

	path := writeConfig(t, `
model:
  provider: ollama
  name: mistral
  temperature: 0
  timeout: 45s
agent:
  max_iterations: 5
  early_stopping: Generate
  memory_window: 10
search:
  max_results: 3
  cache_ttl: 1m
utcp:
  providers_file: providers.json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model.Name != "mistral" || *cfg.Model.Temperature != 0 || cfg.Model.Timeout != 45*time.Second {
		t.Fatalf("unexpected model config %+v", cfg.Model)
	}
	if cfg.Agent.MaxIterations != 5 || cfg.Agent.EarlyStopping != "generate" || cfg.Agent.MemoryWindow != 10 {
		t.Fatalf("unexpected agent config %+v", cfg.Agent)
	}
	if cfg.Search.MaxResults != 3 || cfg.Search.CacheTTL != time.Minute || cfg.Search.Provider != "duckduckgo" {
		t.Fatalf("unexpected search config %+v", cfg.Search)
	}
	if cfg.UTCP.ProvidersFile != "providers.json" {
		t.Fatalf("unexpected utcp config %+v", cfg.UTCP)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse([]byte("model:\n  colour: red\n")); err == nil {
		t.Fatal("expected unknown field error")
	}
	if _, err := Parse([]byte("model:\n  name: a\n---\nmodel:\n  name: b\n")); err == nil {
		t.Fatal("expected multiple document error")
	}
	if cfg, err := Parse(nil); err != nil || cfg.Model.Name != "" {
		t.Fatalf("empty document should parse to zero config: %+v, %v", cfg, err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"OLLAMA_HOST":             "http://gpu-box:11434",
		"CURLING_PROVIDER":        "openai",
		"CURLING_MODEL":           "gpt-4o-mini",
		"CURLING_TEMPERATURE":     "0.2",
		"CURLING_SEARCH_PROVIDER": "ollama",
		"CURLING_MAX_ITERATIONS":  "4",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	var cfg Config
	cfg.Model.Name = "from-file"
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	Normalize(&cfg)

	if cfg.Model.Host != "http://gpu-box:11434" || cfg.Model.Provider != "openai" || cfg.Model.Name != "gpt-4o-mini" {
		t.Fatalf("unexpected model config %+v", cfg.Model)
	}
	if *cfg.Model.Temperature != 0.2 || cfg.Search.Provider != "ollama" || cfg.Agent.MaxIterations != 4 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestApplyEnvRejectsBadNumbers(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "CURLING_TEMPERATURE" {
			return "warm", true
		}
		return "", false
	}
	if err := ApplyEnv(&Config{}, lookup); err == nil {
		t.Fatal("expected parse error")
	}
	if err := ApplyEnv(&Config{}, noEnv); err != nil {
		t.Fatalf("no env should be fine: %v", err)
	}
}

func TestValidateCollectsIssues(t *testing.T) {
	hot := 1.5
	cfg := Config{
		Model:  ModelConfig{Provider: "skynet", Temperature: &hot},
		Agent:  AgentConfig{MaxIterations: -1, EarlyStopping: "sometimes"},
		Search: SearchConfig{Provider: "bing"},
	}
	Normalize(&cfg)

	err := Validate(&cfg)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"model.provider", "model.temperature", "agent.max_iterations", "agent.early_stopping", "search.provider"} {
		if !strings.Contains(verr.Error(), field) {
			t.Errorf("missing issue for %s in:\n%s", field, verr.Error())
		}
	}
}

func TestValidateSkipsDisabledSearch(t *testing.T) {
	cfg := Default()
	cfg.Search.Disabled = true
	cfg.Search.Provider = "whatever"
	if err := Validate(&cfg); err != nil {
		t.Fatalf("disabled search should not be validated: %v", err)
	}
}
