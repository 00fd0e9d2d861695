package models

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// ---------------------------- Ollama -----------------------------------------

const defaultOllamaHost = "http://localhost:11434"

// OllamaLLM talks to a local Ollama daemon.
type OllamaLLM struct {
	Client      *ollama.Client
	Model       string
	Temperature float64
	Stop        []string
	host        string
}

// NewOllamaLLM builds a client for the profile. The host comes from the
// profile, then OLLAMA_HOST, then the Ollama default.
func NewOllamaLLM(p Profile) (*OllamaLLM, error) {
	host := strings.TrimSpace(p.Host)
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = defaultOllamaHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}

	httpClient := &http.Client{Timeout: p.timeout()}
	return &OllamaLLM{
		Client:      ollama.NewClient(u, httpClient),
		Model:       p.Model,
		Temperature: p.Temperature,
		Stop:        p.stop(),
		host:        host,
	}, nil
}

// Host returns the resolved daemon address.
func (o *OllamaLLM) Host() string { return o.host }

// Generate runs a completion and concatenates the streamed chunks.
func (o *OllamaLLM) Generate(ctx context.Context, prompt string) (string, error) {
	options := map[string]any{"temperature": o.Temperature}
	if len(o.Stop) > 0 {
		options["stop"] = o.Stop
	}
	req := &ollama.GenerateRequest{
		Model:   o.Model,
		Prompt:  prompt,
		Options: options,
	}

	var text strings.Builder
	if err := o.Client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		text.WriteString(gr.Response)
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return text.String(), nil
}

// Ping checks that the daemon answers and that the model has been pulled.
func (o *OllamaLLM) Ping(ctx context.Context) error {
	if err := o.Client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("%w: ollama at %s: %v", ErrModelUnavailable, o.host, err)
	}
	list, err := o.Client.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: list ollama models: %v", ErrModelUnavailable, err)
	}
	for _, m := range list.Models {
		if sameOllamaModel(m.Name, o.Model) || sameOllamaModel(m.Model, o.Model) {
			return nil
		}
	}
	return fmt.Errorf("%w: model %q is not pulled; run `ollama pull %s`", ErrModelUnavailable, o.Model, o.Model)
}

// sameOllamaModel treats "llama3.2" and "llama3.2:latest" as the same tag.
func sameOllamaModel(have, want string) bool {
	if have == want {
		return true
	}
	if !strings.Contains(want, ":") {
		return have == want+":latest"
	}
	return false
}

var _ HealthChecker = (*OllamaLLM)(nil)
