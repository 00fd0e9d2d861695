package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const ollamaWebSearchEndpoint = "https://ollama.com/api/web_search"

// OllamaWebSearch calls Ollama's hosted web search API. It requires OLLAMA_API_KEY.
type OllamaWebSearch struct {
	client   *http.Client
	endpoint string
	apiKey   string
}

// NewOllamaWebSearch reads the key from OLLAMA_API_KEY when apiKey is empty.
func NewOllamaWebSearch(apiKey string) *OllamaWebSearch {
	if apiKey == "" {
		apiKey = os.Getenv("OLLAMA_API_KEY")
	}
	return &OllamaWebSearch{
		client:   &http.Client{Timeout: 20 * time.Second},
		endpoint: ollamaWebSearchEndpoint,
		apiKey:   apiKey,
	}
}

type ollamaSearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type ollamaSearchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (o *OllamaWebSearch) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if o.apiKey == "" {
		return nil, fmt.Errorf("ollama web search: OLLAMA_API_KEY is not set")
	}
	maxResults = clampResults(maxResults)

	payload, err := json.Marshal(ollamaSearchRequest{Query: query, MaxResults: maxResults})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama web search http %d", resp.StatusCode)
	}

	var out ollamaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode ollama web search response: %w", err)
	}

	results := make([]Result, 0, len(out.Results))
	for _, r := range out.Results {
		if len(results) >= maxResults {
			break
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(r.Title),
			Snippet: collapse(r.Content),
			URL:     strings.TrimSpace(r.URL),
		})
	}
	return results, nil
}
