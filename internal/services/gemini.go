package services

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"hireflow/talent-matcher/internal/config"
)

type geminiEmbedder struct {
	client       *genai.Client
	embedModel   string
	timeout      time.Duration
	maxTextChars int
}

// NewGeminiEmbedder uses the Gemini API as the embedding provider for
// deployments without the in-house AI sidecar.
func NewGeminiEmbedder(cfg config.EmbeddingConfig) (EmbeddingService, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiEmbedder{
		client:       client,
		embedModel:   "text-embedding-004",
		timeout:      cfg.Timeout,
		maxTextChars: cfg.MaxTextChars,
	}, nil
}

// GenerateEmbedding implements EmbeddingService.
func (g *geminiEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateChars(text, g.maxTextChars)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate embedding: %v", ErrProvider, err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty embedding result", ErrProvider)
	}

	return result.Embeddings[0].Values, nil
}
