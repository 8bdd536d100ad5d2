package engine

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// genaiBackend serves generation through the Google GenAI API. It is the
// zero-install path for development and for deployments that host the model
// remotely instead of on a local accelerator.
type genaiBackend struct {
	client *genai.Client
	model  string
}

// NewGenAIBackend builds a Backend over the hosted GenAI API.
func NewGenAIBackend(ctx context.Context, apiKey, model string) (Backend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &genaiBackend{client: client, model: model}, nil
}

func (b *genaiBackend) Name() string { return "genai" }

func (b *genaiBackend) Generate(ctx context.Context, req GenRequest) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if len(req.Image) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: req.ImageMIME, Data: req.Image},
		})
	}
	content := &genai.Content{Role: "user", Parts: parts}

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxNewTokens),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, []*genai.Content{content}, cfg)
	if err != nil {
		return "", classifyGenAIFailure(err)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrGeneration("no response candidates returned")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", ErrGeneration("empty response content")
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", ErrGeneration("no text in response")
	}
	return text.String(), nil
}

// classifyGenAIFailure maps API errors onto the error taxonomy. Quota and
// capacity failures count as resource exhaustion for the caller.
func classifyGenAIFailure(err error) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "resource_exhausted"),
		strings.Contains(lower, "quota"),
		strings.Contains(msg, "429"):
		return ErrResourceExhausted(msg)
	case strings.Contains(lower, "image"):
		return ErrImageProcessing(msg)
	default:
		return ErrGeneration(msg)
	}
}

func (b *genaiBackend) Ready(ctx context.Context) bool { return b.client != nil }

func (b *genaiBackend) Close() error { return nil }
