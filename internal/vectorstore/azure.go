package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"hireflow/internal/config"
)

// AzureEmbedder calls the Azure OpenAI embeddings endpoint
type AzureEmbedder struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewAzureEmbedder builds an embedder for the configured Azure deployment
func NewAzureEmbedder(cfg *config.Config) (*AzureEmbedder, error) {
	az := cfg.Embeddings.Azure
	if az.APIKey == "" || az.InstanceName == "" || az.Deployment == "" {
		return nil, fmt.Errorf("azure embeddings require api key, instance name and deployment")
	}

	endpoint := fmt.Sprintf("https://%s.openai.azure.com/openai/deployments/%s/embeddings?api-version=%s",
		az.InstanceName, az.Deployment, az.APIVersion)

	return &AzureEmbedder{
		endpoint: endpoint,
		apiKey:   az.APIKey,
		client:   &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type azureEmbeddingsRequest struct {
	Input []string `json:"input"`
}

type azureEmbeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (e *AzureEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *AzureEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embed(ctx, texts)
}

func (e *AzureEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(azureEmbeddingsRequest{Input: texts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure embeddings request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("azure embeddings returned %d: %s", resp.StatusCode, raw)
	}

	var parsed azureEmbeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode azure embeddings response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("azure embeddings returned %d vectors for %d inputs", len(parsed.Data), len(texts))
	}

	// The API may return entries out of order; the index field is authoritative
	sort.Slice(parsed.Data, func(i, j int) bool {
		return parsed.Data[i].Index < parsed.Data[j].Index
	})

	vectors := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
