package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"hireflow/internal/config"
)

// GoogleEmbedder produces vectors through the Gemini embeddings API
type GoogleEmbedder struct {
	client *genai.Client
	model  string
}

// NewGoogleEmbedder creates an embedder bound to the configured Gemini model
func NewGoogleEmbedder(ctx context.Context, cfg *config.Config) (*GoogleEmbedder, error) {
	apiKey := strings.TrimSpace(cfg.Embeddings.Google.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("google embeddings require an api key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GoogleEmbedder{
		client: client,
		model:  cfg.Embeddings.Google.Model,
	}, nil
}

func (e *GoogleEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *GoogleEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.Text(t)...)
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings request failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embeddings returned %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}
