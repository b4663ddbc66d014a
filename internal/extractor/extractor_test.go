package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExtractTextPlainDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Senior Go developer with ten years of backend experience."))
	}))
	defer server.Close()

	e := NewPDFExtractor(5 * time.Second)
	text, err := e.ExtractText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "Go developer") {
		t.Errorf("unexpected text %q", text)
	}
}

func TestExtractTextNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	e := NewPDFExtractor(5 * time.Second)
	if _, err := e.ExtractText(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestExtractTextTimesOutOnSlowHost(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	e := NewPDFExtractor(50 * time.Millisecond)
	start := time.Now()
	_, err := e.ExtractText(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestExtractTextEmptyDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
	}))
	defer server.Close()

	e := NewPDFExtractor(5 * time.Second)
	if _, err := e.ExtractText(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for empty document")
	}
}
