package vectorstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hireflow/internal/config"
)

type stubEmbedder struct {
	queryCalls int
	docCalls   int
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	s.queryCalls++
	return []float32{0.1, 0.2, 0.3}, nil
}

func (s *stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	s.docCalls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i), float32(i), float32(i)}
	}
	return out, nil
}

func newTestProvider(t *testing.T, handler http.Handler) (*PineconeProvider, *stubEmbedder) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	embedder := &stubEmbedder{}
	cfg := &config.Config{}
	cfg.Pinecone.APIKey = "test-key"
	cfg.Pinecone.IndexName = "cv-index"
	cfg.Pinecone.ControlURL = server.URL
	cfg.Pinecone.Timeout = 5 * time.Second

	provider, err := NewPineconeProvider(cfg, embedder)
	if err != nil {
		t.Fatalf("NewPineconeProvider: %v", err)
	}

	// Route the data plane through the same test server
	provider.host = strings.TrimPrefix(server.URL, "http://")
	return provider, embedder
}

func TestSimilaritySearchForwardsFilterAndDecodesMatches(t *testing.T) {
	var gotBody map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Api-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []map[string]interface{}{
				{
					"id":    "v1",
					"score": 0.92,
					"metadata": map[string]interface{}{
						"text":          "resume text",
						"applicationId": "app-1",
					},
				},
			},
		})
	})

	provider, embedder := newTestProvider(t, mux)
	// The store must not re-resolve the host over HTTPS in tests
	store := &pineconeStore{
		baseURL:  "http://" + provider.host,
		apiKey:   provider.apiKey,
		embedder: embedder,
		client:   provider.client,
		logger:   provider.logger,
	}

	filter := map[string]interface{}{"vacancyId": map[string]interface{}{"$eq": "vac-1"}}
	matches, err := store.SimilaritySearchWithScore(context.Background(), "job description", 5, filter)
	if err != nil {
		t.Fatalf("SimilaritySearchWithScore: %v", err)
	}

	if embedder.queryCalls != 1 {
		t.Errorf("expected 1 query embedding call, got %d", embedder.queryCalls)
	}
	if gotBody["topK"].(float64) != 5 {
		t.Errorf("expected topK 5, got %v", gotBody["topK"])
	}
	if gotBody["includeMetadata"] != true {
		t.Errorf("expected includeMetadata true")
	}
	if _, ok := gotBody["filter"]; !ok {
		t.Errorf("filter was not forwarded")
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Document.PageContent != "resume text" {
		t.Errorf("unexpected page content %q", matches[0].Document.PageContent)
	}
	if matches[0].Document.Metadata["applicationId"] != "app-1" {
		t.Errorf("unexpected metadata %v", matches[0].Document.Metadata)
	}
	if _, ok := matches[0].Document.Metadata["text"]; ok {
		t.Errorf("text key should be stripped from metadata")
	}
	if matches[0].Score != 0.92 {
		t.Errorf("unexpected score %v", matches[0].Score)
	}
}

func TestAddDocumentsUpsertsOneVectorPerDocument(t *testing.T) {
	var gotVectors []map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/vectors/upsert", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Vectors []map[string]interface{} `json:"vectors"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotVectors = body.Vectors
		w.Write([]byte(`{}`))
	})

	provider, embedder := newTestProvider(t, mux)
	store := &pineconeStore{
		baseURL:  "http://" + provider.host,
		apiKey:   provider.apiKey,
		embedder: embedder,
		client:   provider.client,
		logger:   provider.logger,
	}

	docs := []Document{
		{PageContent: "cv one", Metadata: map[string]interface{}{"applicationId": "a1", "vacancyId": "v1"}},
		{PageContent: "cv two", Metadata: map[string]interface{}{"applicationId": "a2", "vacancyId": "v1"}},
	}
	if err := store.AddDocuments(context.Background(), docs); err != nil {
		t.Fatalf("AddDocuments: %v", err)
	}

	if embedder.docCalls != 1 {
		t.Errorf("expected documents embedded in a single batch, got %d calls", embedder.docCalls)
	}
	if len(gotVectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(gotVectors))
	}
	meta := gotVectors[0]["metadata"].(map[string]interface{})
	if meta["text"] != "cv one" {
		t.Errorf("page content not stored in metadata: %v", meta)
	}
	if meta["applicationId"] != "a1" {
		t.Errorf("document metadata not preserved: %v", meta)
	}
	if gotVectors[0]["id"] == gotVectors[1]["id"] {
		t.Errorf("vector ids must be unique")
	}
}

func TestResolveHostCachesControlPlaneAnswer(t *testing.T) {
	describeCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/indexes/cv-index", func(w http.ResponseWriter, r *http.Request) {
		describeCalls++
		json.NewEncoder(w).Encode(map[string]string{"host": "cv-index.svc.pinecone.io"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	cfg := &config.Config{}
	cfg.Pinecone.APIKey = "test-key"
	cfg.Pinecone.IndexName = "cv-index"
	cfg.Pinecone.ControlURL = server.URL
	cfg.Pinecone.Timeout = 5 * time.Second

	provider, err := NewPineconeProvider(cfg, &stubEmbedder{})
	if err != nil {
		t.Fatalf("NewPineconeProvider: %v", err)
	}

	for i := 0; i < 3; i++ {
		host, err := provider.resolveHost(context.Background())
		if err != nil {
			t.Fatalf("resolveHost: %v", err)
		}
		if host != "cv-index.svc.pinecone.io" {
			t.Errorf("unexpected host %q", host)
		}
	}
	if describeCalls != 1 {
		t.Errorf("expected a single describe call, got %d", describeCalls)
	}
}
