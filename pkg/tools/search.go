package tools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	agent "github.com/Protocol-Lattice/curling-agent"
	"github.com/Protocol-Lattice/curling-agent/pkg/search"
	"github.com/Protocol-Lattice/curling-agent/src/cache"
)

const (
	// SearchToolName is the name the model uses in "Action:" lines.
	SearchToolName = "WebSearch"

	SearchToolDescription = "Search the internet for current information about curling. " +
		"Use this ONLY for recent events, competitions, or facts you don't know. " +
		"Input should be a clear search query."

	// NoResults is returned when a search finds nothing.
	NoResults = "No search results found."
)

// SearchTool exposes a search.Provider to the agent.
type SearchTool struct {
	provider   search.Provider
	maxResults int
	cache      *cache.LRUCache[string]
	logger     *log.Logger
}

// SearchOption customises a SearchTool.
type SearchOption func(*SearchTool)

// WithMaxResults caps the number of hits per query. Values <= 0 keep the default of 5.
func WithMaxResults(n int) SearchOption {
	return func(t *SearchTool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// WithSearchCache memoises formatted results per query.
func WithSearchCache(size int, ttl time.Duration) SearchOption {
	return func(t *SearchTool) {
		if size > 0 {
			t.cache = cache.NewLRUCache[string](size, ttl)
		}
	}
}

// WithSearchLogger logs failed searches.
func WithSearchLogger(logger *log.Logger) SearchOption {
	return func(t *SearchTool) { t.logger = logger }
}

func NewSearchTool(provider search.Provider, opts ...SearchOption) *SearchTool {
	t := &SearchTool{provider: provider, maxResults: search.DefaultMaxResults}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func (t *SearchTool) Spec() agent.ToolSpec {
	return agent.ToolSpec{Name: SearchToolName, Description: SearchToolDescription}
}

func (t *SearchTool) Invoke(ctx context.Context, req agent.ToolRequest) (agent.ToolResponse, error) {
	query := strings.TrimSpace(req.Input)
	if query == "" {
		return agent.ToolResponse{}, errors.New("search query is empty")
	}
	if t.provider == nil {
		return agent.ToolResponse{}, errors.New("no search provider configured")
	}

	key := cache.HashKey(query, strconv.Itoa(t.maxResults))
	if t.cache != nil {
		if hit, ok := t.cache.Get(key); ok {
			return agent.ToolResponse{Content: hit, Metadata: map[string]string{"cache": "hit"}}, nil
		}
	}

	results, err := t.provider.Search(ctx, query, t.maxResults)
	if err != nil {
		if t.logger != nil {
			t.logger.Printf("[Search] query %q failed: %v", query, err)
		}
		return agent.ToolResponse{}, fmt.Errorf("search error: %w", err)
	}
	if len(results) > t.maxResults {
		results = results[:t.maxResults]
	}

	content := FormatResults(results)
	if t.cache != nil {
		t.cache.Set(key, content)
	}
	return agent.ToolResponse{
		Content:  content,
		Metadata: map[string]string{"results": strconv.Itoa(len(results))},
	}, nil
}

// FormatResults renders hits as a numbered list with title, snippet and
// source. An empty list yields NoResults.
func FormatResults(results []search.Result) string {
	if len(results) == 0 {
		return NoResults
	}
	entries := make([]string, 0, len(results))
	for i, r := range results {
		entries = append(entries, fmt.Sprintf("%d. **%s**\n   %s\n   Source: %s\n",
			i+1,
			orDefault(r.Title, "No title"),
			orDefault(r.Snippet, "No description"),
			orDefault(r.URL, "No link"),
		))
	}
	return strings.Join(entries, "\n")
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

var _ agent.Tool = (*SearchTool)(nil)
