package vectorstore

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"hireflow/internal/config"
)

// Embedder turns text into vectors
type Embedder interface {
	// EmbedQuery embeds a single piece of query text
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments embeds a batch of document texts, one vector per input
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// NewEmbedder creates the configured embeddings provider, wrapped with the
// configured request rate limit
func NewEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	var (
		inner Embedder
		err   error
	)

	switch cfg.Embeddings.Provider {
	case "azure":
		inner, err = NewAzureEmbedder(cfg)
	case "google":
		inner, err = NewGoogleEmbedder(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported embeddings provider: %s", cfg.Embeddings.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Embeddings.RateLimit > 0 {
		return NewRateLimitedEmbedder(inner, cfg.Embeddings.RateLimit), nil
	}
	return inner, nil
}

// RateLimitedEmbedder throttles an Embedder to a fixed number of requests per
// minute. Embedding providers meter per request, so one Wait covers a whole
// document batch.
type RateLimitedEmbedder struct {
	inner   Embedder
	limiter *rate.Limiter
}

// NewRateLimitedEmbedder wraps inner with a requests-per-minute budget
func NewRateLimitedEmbedder(inner Embedder, perMinute int) *RateLimitedEmbedder {
	return &RateLimitedEmbedder{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
	}
}

func (e *RateLimitedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.EmbedQuery(ctx, text)
}

func (e *RateLimitedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return e.inner.EmbedDocuments(ctx, texts)
}
