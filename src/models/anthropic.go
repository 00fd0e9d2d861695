package models

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicLLM sends each prompt as a single user message to the Messages API.
type AnthropicLLM struct {
	Client      *anthropic.Client
	Model       string
	MaxTokens   int
	Temperature float64
	Stop        []string
}

// NewAnthropicLLM reads ANTHROPIC_API_KEY from the environment.
func NewAnthropicLLM(p Profile) *AnthropicLLM {
	cl := anthropic.NewClient(
		anthropicopt.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
		anthropicopt.WithHTTPClient(&http.Client{Timeout: p.timeout()}),
	)
	return &AnthropicLLM{
		Client:      &cl,
		Model:       p.Model,
		MaxTokens:   1024,
		Temperature: p.Temperature,
		Stop:        p.stop(),
	}
}

// Generate performs a single-turn completion and returns the concatenated text blocks.
func (a *AnthropicLLM) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := a.Client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:         anthropic.Model(a.Model),
		MaxTokens:     int64(a.MaxTokens),
		Temperature:   anthropic.Float(a.Temperature),
		StopSequences: a.Stop,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}

	var b strings.Builder
	for _, cb := range msg.Content {
		if tb, ok := cb.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}
