package models

import (
	"context"
	"errors"
	"time"
)

// ErrModelUnavailable reports that a backend could not be reached or does not
// serve the requested model. It is only returned while setting a model up.
var ErrModelUnavailable = errors.New("model unavailable")

// DefaultStop keeps ReAct-style models from inventing their own tool results.
var DefaultStop = []string{"\nObservation:"}

// LLM is a plain text-in, text-out completion backend.
type LLM interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HealthChecker is implemented by backends that can verify, before the first
// request, that they are reachable and serve the configured model.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Profile selects a backend and the sampling settings used for every call.
type Profile struct {
	Provider    string
	Model       string
	Temperature float64
	// Host overrides the backend endpoint (Ollama only).
	Host string
	// Stop sequences end a generation early. Nil means DefaultStop.
	Stop []string
	// Timeout bounds the HTTP client used by the backend.
	Timeout time.Duration
	// CacheSize > 0 wraps the backend in a CachedLLM.
	CacheSize int
	CacheTTL  time.Duration
}

func (p Profile) stop() []string {
	if p.Stop == nil {
		return DefaultStop
	}
	return p.Stop
}

func (p Profile) timeout() time.Duration {
	if p.Timeout <= 0 {
		return 120 * time.Second
	}
	return p.Timeout
}
