// Package vectorstore ranks free text against a vector index. Documents are
// embedded through a pluggable provider and stored in Pinecone; similarity
// queries return scored matches filtered by metadata.
package vectorstore

import "context"

// Document is one unit of text plus the metadata stored alongside its vector.
// When ID is set it becomes the vector ID, making repeated upserts for the
// same document idempotent.
type Document struct {
	ID          string
	PageContent string
	Metadata    map[string]interface{}
}

// Match pairs a stored document with its similarity score for a query
type Match struct {
	Document Document
	Score    float32
}

// Store indexes documents and answers similarity queries
type Store interface {
	// AddDocuments embeds and upserts the given documents
	AddDocuments(ctx context.Context, docs []Document) error

	// SimilaritySearchWithScore returns up to k matches for the query text,
	// restricted to vectors whose metadata satisfies filter. A nil filter
	// searches the whole index.
	SimilaritySearchWithScore(ctx context.Context, query string, k int, filter map[string]interface{}) ([]Match, error)
}

// Provider owns the connection to the vector index
type Provider interface {
	// GetStore resolves the index and returns a Store bound to it
	GetStore(ctx context.Context) (Store, error)

	// Reset deletes every vector in the index
	Reset(ctx context.Context) error
}
