package models

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"

	"github.com/sashabaranov/go-openai"
)

type OpenAILLM struct {
	Client      *openai.Client
	Model       string
	Temperature float32
	Stop        []string
}

func NewOpenAILLM(p Profile) *OpenAILLM {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_KEY") // fallback
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: p.timeout()}
	return &OpenAILLM{
		Client:      openai.NewClientWithConfig(cfg),
		Model:       p.Model,
		Temperature: openAITemperature(p.Temperature),
		Stop:        p.stop(),
	}
}

func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.Model,
		Temperature: o.Temperature,
		Stop:        o.Stop,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// openAITemperature keeps a zero temperature on the wire; go-openai omits a
// literal 0 and the server would fall back to 1.0.
func openAITemperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
