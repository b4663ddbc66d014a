// Package extractor turns hosted resume documents into plain text for
// downstream ranking.
package extractor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"code.sajari.com/docconv"

	"hireflow/internal/logging"
	"hireflow/internal/logging/types"
)

// TextExtractor fetches a document by URL and returns its plain text
type TextExtractor interface {
	ExtractText(ctx context.Context, url string) (string, error)
}

// PDFExtractor downloads a resume over HTTP and converts it with docconv.
// Every fetch is bounded by Timeout so one unreachable host cannot stall a
// whole preselection batch.
type PDFExtractor struct {
	client  *http.Client
	timeout time.Duration
	logger  types.Logger
}

// NewPDFExtractor creates an extractor with the given per-document timeout
func NewPDFExtractor(timeout time.Duration) *PDFExtractor {
	return &PDFExtractor{
		client:  &http.Client{},
		timeout: timeout,
		logger:  logging.GetGlobalLogger(),
	}
}

// ExtractText downloads the document at url and returns its text content
func (e *PDFExtractor) ExtractText(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid resume url: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch resume: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resume fetch returned %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	contentType = strings.TrimSpace(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "application/pdf"
	}

	res, err := docconv.Convert(resp.Body, contentType, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert document: %w", err)
	}

	text := strings.TrimSpace(res.Body)
	if text == "" {
		return "", fmt.Errorf("document contains no extractable text")
	}

	e.logger.Debug("Resume text extracted", map[string]interface{}{
		"url":   url,
		"chars": len(text),
	})
	return text, nil
}
