// Package assist wraps Google's Gemini API for clinical-text enhancement:
// rewriting a practitioner's raw session notes into formal, organized
// Portuguese prose without changing their meaning.
package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultModelID = "gemini-2.5-flash"

// GeminiClient talks to the Gemini API.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

// NewGeminiClient creates a Gemini-backed text enhancer.
func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("assist: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = defaultModelID
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("assist: failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelID: modelID}, nil
}

// EnhanceClinicalText asks the model for a more formal, organized version of
// the note. The caller decides what to do when this fails; the client never
// falls back on its own.
func (c *GeminiClient) EnhanceClinicalText(ctx context.Context, text string) (string, error) {
	model := c.client.GenerativeModel(c.modelID)
	resp, err := model.GenerateContent(ctx, genai.Text(enhancementPrompt(text)))
	if err != nil {
		return "", fmt.Errorf("assist: gemini completion failed: %w", err)
	}
	out := responseText(resp)
	if out == "" {
		return "", errors.New("assist: gemini returned empty content")
	}
	return out, nil
}

// Close releases resources held by the underlying client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func enhancementPrompt(text string) string {
	return fmt.Sprintf(`Atue como um assistente profissional para psicólogos.
Melhore o seguinte texto de anotação clínica, tornando-o mais formal,
organizado e profissional, mantendo a confidencialidade e a essência da informação.

Texto original: %q

Retorne apenas o texto melhorado.`, text)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String())
}
