// Package search provides web search backends used by the WebSearch tool.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxResults is the number of hits returned when the caller does not ask for more.
const DefaultMaxResults = 5

// ErrEmptyQuery is returned for blank queries.
var ErrEmptyQuery = errors.New("query is empty")

// Result is one search hit.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Provider performs a web search and returns at most maxResults hits.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// New returns the provider registered under name.
func New(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "duckduckgo", "ddg":
		return NewDuckDuckGo(), nil
	case "ollama":
		return NewOllamaWebSearch(""), nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s", name)
	}
}

func clampResults(n int) int {
	if n <= 0 {
		return DefaultMaxResults
	}
	return n
}
