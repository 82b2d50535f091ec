package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hireflow/talent-matcher/internal/config"
)

// EmbeddingService converts text into a fixed-length vector. Implementations
// must fail fast on timeout; retry policy belongs to the caller.
type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// NewEmbeddingService selects the provider configured for this deployment.
func NewEmbeddingService(cfg config.EmbeddingConfig) (EmbeddingService, error) {
	switch cfg.Provider {
	case "http":
		return NewHTTPEmbedder(cfg), nil
	case "gemini":
		return NewGeminiEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Provider)
	}
}

type httpEmbedder struct {
	client       *http.Client
	serviceURL   string
	timeout      time.Duration
	maxTextChars int
}

// NewHTTPEmbedder talks to the in-house AI sidecar: POST /embeddings with
// {"text": ...} returning {"embedding": [...]}.
func NewHTTPEmbedder(cfg config.EmbeddingConfig) EmbeddingService {
	return &httpEmbedder{
		client:       &http.Client{Timeout: cfg.Timeout},
		serviceURL:   cfg.ServiceURL,
		timeout:      cfg.Timeout,
		maxTextChars: cfg.MaxTextChars,
	}
}

type embeddingRequest struct {
	Text string `json:"text"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// GenerateEmbedding implements EmbeddingService.
func (e *httpEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateChars(text, e.maxTextChars)

	body, err := json.Marshal(embeddingRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrProvider, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.serviceURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrProvider, resp.StatusCode)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrProvider, err)
	}

	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding in response", ErrProvider)
	}

	return parsed.Embedding, nil
}
