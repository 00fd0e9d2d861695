// Package config loads the chatbot configuration from YAML and the environment.
package config

import (
	"time"

	"github.com/Protocol-Lattice/curling-agent/src/models"
)

// Defaults applied by Normalize.
const (
	DefaultProvider       = "ollama"
	DefaultModel          = "llama3.2"
	DefaultTemperature    = 0.7
	DefaultMaxIterations  = 3
	DefaultSearchProvider = "duckduckgo"
	DefaultMaxResults     = 5
	DefaultModelTimeout   = 120 * time.Second
	DefaultToolTimeout    = 20 * time.Second
	DefaultSearchCache    = 128
	DefaultSearchCacheTTL = 10 * time.Minute
)

// Config is the top-level configuration file.
type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Agent  AgentConfig  `yaml:"agent"`
	Search SearchConfig `yaml:"search"`
	UTCP   UTCPConfig   `yaml:"utcp"`
}

type ModelConfig struct {
	Provider string `yaml:"provider"`
	Name     string `yaml:"name"`
	// Temperature is a pointer so an explicit 0 survives Normalize.
	Temperature *float64      `yaml:"temperature"`
	Host        string        `yaml:"host"`
	Timeout     time.Duration `yaml:"timeout"`
	CacheSize   int           `yaml:"cache_size"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

type AgentConfig struct {
	MaxIterations int `yaml:"max_iterations"`
	// EarlyStopping is "force" or "generate".
	EarlyStopping  string        `yaml:"early_stopping"`
	ToolTimeout    time.Duration `yaml:"tool_timeout"`
	MemoryWindow   int           `yaml:"memory_window"`
	PromptTemplate string        `yaml:"prompt_template"`
	Instructions   string        `yaml:"instructions"`
	Verbose        bool          `yaml:"verbose"`
}

type SearchConfig struct {
	Disabled   bool          `yaml:"disabled"`
	Provider   string        `yaml:"provider"`
	MaxResults int           `yaml:"max_results"`
	// CacheSize < 0 disables the result cache.
	CacheSize  int           `yaml:"cache_size"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

// UTCPConfig registers extra tools from a UTCP providers file.
type UTCPConfig struct {
	ProvidersFile string `yaml:"providers_file"`
	ToolQuery     string `yaml:"tool_query"`
	MaxTools      int    `yaml:"max_tools"`
}

// Default returns a normalized configuration with no file or environment input.
func Default() Config {
	var cfg Config
	Normalize(&cfg)
	return cfg
}

// Profile converts the model section to a models.Profile.
func (c Config) Profile() models.Profile {
	temp := DefaultTemperature
	if c.Model.Temperature != nil {
		temp = *c.Model.Temperature
	}
	return models.Profile{
		Provider:    c.Model.Provider,
		Model:       c.Model.Name,
		Temperature: temp,
		Host:        c.Model.Host,
		Timeout:     c.Model.Timeout,
		CacheSize:   c.Model.CacheSize,
		CacheTTL:    c.Model.CacheTTL,
	}
}
