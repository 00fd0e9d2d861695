package models

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/Protocol-Lattice/curling-agent/src/cache"
)

// CachedLLM wraps an LLM and caches Generate calls by prompt.
type CachedLLM struct {
	LLM   LLM
	Cache *cache.LRUCache[string]
}

// NewCachedLLM creates a new CachedLLM wrapper.
func NewCachedLLM(llm LLM, size int, ttl time.Duration) *CachedLLM {
	return &CachedLLM{
		LLM:   llm,
		Cache: cache.NewLRUCache[string](size, ttl),
	}
}

// Generate checks the cache before calling the underlying model.
// Errors are never cached.
func (c *CachedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	key := cache.HashKey(prompt)
	if val, ok := c.Cache.Get(key); ok {
		return val, nil
	}

	res, err := c.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	c.Cache.Set(key, res)
	return res, nil
}

// Ping forwards to the wrapped model when it supports health checks.
func (c *CachedLLM) Ping(ctx context.Context) error {
	if hc, ok := c.LLM.(HealthChecker); ok {
		return hc.Ping(ctx)
	}
	return nil
}

// TryCreateCachedLLM checks env vars and wraps the model if caching is enabled.
func TryCreateCachedLLM(llm LLM) LLM {
	sizeStr := os.Getenv("CURLING_LLM_CACHE_SIZE")
	if sizeStr == "" {
		return llm
	}

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return llm
	}

	ttl := 300 * time.Second // default 5 mins
	if ttlStr := os.Getenv("CURLING_LLM_CACHE_TTL"); ttlStr != "" {
		if sec, err := strconv.Atoi(ttlStr); err == nil && sec > 0 {
			ttl = time.Duration(sec) * time.Second
		}
	}

	return NewCachedLLM(llm, size, ttl)
}

var _ HealthChecker = (*CachedLLM)(nil)
