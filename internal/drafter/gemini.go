package drafter

import (
	"context"

	"google.golang.org/genai"

	"github.com/candidatelabs/talentsync/pkg/errors"
)

// Gemini is the production Generator backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator using the given API key and model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.NewConfigError("drafter", "GEMINI_API_KEY is not set", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.NewConfigError("drafter", "failed to create Gemini client", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Generate runs one completion and returns its text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	temperature := float32(0.4)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 1024,
	})
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}
