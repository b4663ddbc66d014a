package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"hireflow/internal/config"
	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
)

// metadataTextKey is the metadata field that carries the original page content
const metadataTextKey = "text"

// PineconeProvider talks to the Pinecone control plane to resolve the index
// host, then hands out stores bound to the data plane
type PineconeProvider struct {
	apiKey     string
	indexName  string
	controlURL string
	embedder   Embedder
	client     *http.Client
	logger     types.Logger

	mu   sync.Mutex
	host string
}

// NewPineconeProvider creates a provider for the configured index
func NewPineconeProvider(cfg *config.Config, embedder Embedder) (*PineconeProvider, error) {
	if cfg.Pinecone.APIKey == "" {
		return nil, fmt.Errorf("pinecone api key is required")
	}

	return &PineconeProvider{
		apiKey:     cfg.Pinecone.APIKey,
		indexName:  cfg.Pinecone.IndexName,
		controlURL: cfg.Pinecone.ControlURL,
		embedder:   embedder,
		client:     &http.Client{Timeout: cfg.Pinecone.Timeout},
		logger:     logging.GetGlobalLogger(),
	}, nil
}

// GetStore resolves the index host and returns a store bound to it
func (p *PineconeProvider) GetStore(ctx context.Context) (Store, error) {
	host, err := p.resolveHost(ctx)
	if err != nil {
		return nil, err
	}

	return &pineconeStore{
		baseURL:  "https://" + host,
		apiKey:   p.apiKey,
		embedder: p.embedder,
		client:   p.client,
		logger:   p.logger,
	}, nil
}

// Reset deletes every vector in the index
func (p *PineconeProvider) Reset(ctx context.Context) error {
	host, err := p.resolveHost(ctx)
	if err != nil {
		return err
	}

	err = p.post(ctx, "https://"+host+"/vectors/delete", map[string]interface{}{
		"deleteAll": true,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to reset index %s: %w", p.indexName, err)
	}

	p.logger.Info("Vector index reset", map[string]interface{}{
		"index": p.indexName,
	})
	return nil
}

// resolveHost asks the control plane for the index's data-plane host. The
// host is stable for the lifetime of an index, so it is cached.
func (p *PineconeProvider) resolveHost(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.host != "" {
		return p.host, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.controlURL+"/indexes/"+p.indexName, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to describe index %s: %w", p.indexName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("describe index %s returned %d: %s", p.indexName, resp.StatusCode, raw)
	}

	var parsed struct {
		Host string `json:"host"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode index description: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("index %s has no host", p.indexName)
	}

	p.host = parsed.Host
	return p.host, nil
}

func (p *PineconeProvider) post(ctx context.Context, url string, body interface{}, out interface{}) error {
	return pineconePost(ctx, p.client, p.apiKey, url, body, out)
}

// pineconeStore is a Store bound to one index's data plane
type pineconeStore struct {
	baseURL  string
	apiKey   string
	embedder Embedder
	client   *http.Client
	logger   types.Logger
}

type pineconeVector struct {
	ID       string                 `json:"id"`
	Values   []float32              `json:"values"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (s *pineconeStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.PageContent
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	payload := make([]pineconeVector, len(docs))
	for i, d := range docs {
		metadata := map[string]interface{}{metadataTextKey: d.PageContent}
		for k, v := range d.Metadata {
			metadata[k] = v
		}
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		payload[i] = pineconeVector{
			ID:       id,
			Values:   vectors[i],
			Metadata: metadata,
		}
	}

	err = pineconePost(ctx, s.client, s.apiKey, s.baseURL+"/vectors/upsert", map[string]interface{}{
		"vectors": payload,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}

	s.logger.Debug("Documents indexed", map[string]interface{}{
		"count": len(docs),
	})
	return nil
}

func (s *pineconeStore) SimilaritySearchWithScore(ctx context.Context, query string, k int, filter map[string]interface{}) ([]Match, error) {
	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	body := map[string]interface{}{
		"vector":          vector,
		"topK":            k,
		"includeMetadata": true,
	}
	if len(filter) > 0 {
		body["filter"] = filter
	}

	var parsed struct {
		Matches []struct {
			ID       string                 `json:"id"`
			Score    float32                `json:"score"`
			Metadata map[string]interface{} `json:"metadata"`
		} `json:"matches"`
	}
	if err := pineconePost(ctx, s.client, s.apiKey, s.baseURL+"/query", body, &parsed); err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}

	matches := make([]Match, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		content, _ := m.Metadata[metadataTextKey].(string)
		metadata := make(map[string]interface{}, len(m.Metadata))
		for key, v := range m.Metadata {
			if key == metadataTextKey {
				continue
			}
			metadata[key] = v
		}
		matches = append(matches, Match{
			Document: Document{PageContent: content, Metadata: metadata},
			Score:    m.Score,
		})
	}
	return matches, nil
}

func pineconePost(ctx context.Context, client *http.Client, apiKey, url string, body interface{}, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("pinecone returned %d: %s", resp.StatusCode, detail)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
