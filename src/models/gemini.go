package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ---------------------------- Google Gemini ----------------------------------

type GeminiLLM struct {
	Client      *genai.Client
	Model       string
	Temperature float32
	Stop        []string
}

func NewGeminiLLM(ctx context.Context, p Profile) (*GeminiLLM, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing GOOGLE_API_KEY or GEMINI_API_KEY", ErrModelUnavailable)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: gemini init: %v", ErrModelUnavailable, err)
	}
	return &GeminiLLM{
		Client:      client,
		Model:       p.Model,
		Temperature: float32(p.Temperature),
		Stop:        p.stop(),
	}, nil
}

func (g *GeminiLLM) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.Client.GenerativeModel(g.Model)
	model.SetTemperature(g.Temperature)
	model.StopSequences = g.Stop

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
