package config

import (
	"strings"

	"github.com/Protocol-Lattice/curling-agent/src/models"
)

// Normalize fills unset fields with defaults.
func Normalize(cfg *Config) {
	cfg.Model.Provider = models.NormalizeProvider(cfg.Model.Provider)
	if strings.TrimSpace(cfg.Model.Name) == "" {
		cfg.Model.Name = DefaultModel
	}
	if cfg.Model.Temperature == nil {
		temp := DefaultTemperature
		cfg.Model.Temperature = &temp
	}
	if cfg.Model.Timeout <= 0 {
		cfg.Model.Timeout = DefaultModelTimeout
	}

	if cfg.Agent.MaxIterations == 0 {
		cfg.Agent.MaxIterations = DefaultMaxIterations
	}
	cfg.Agent.EarlyStopping = strings.ToLower(strings.TrimSpace(cfg.Agent.EarlyStopping))
	if cfg.Agent.EarlyStopping == "" {
		cfg.Agent.EarlyStopping = "force"
	}
	if cfg.Agent.ToolTimeout <= 0 {
		cfg.Agent.ToolTimeout = DefaultToolTimeout
	}

	cfg.Search.Provider = strings.ToLower(strings.TrimSpace(cfg.Search.Provider))
	if cfg.Search.Provider == "" {
		cfg.Search.Provider = DefaultSearchProvider
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}
	if cfg.Search.CacheSize == 0 {
		cfg.Search.CacheSize = DefaultSearchCache
	}
	if cfg.Search.CacheTTL == 0 {
		cfg.Search.CacheTTL = DefaultSearchCacheTTL
	}
}
