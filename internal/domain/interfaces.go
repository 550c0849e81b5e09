package domain

import (
	"context"
	"net/http"
)

// Fetcher defines the interface for retrieving source documents
type Fetcher interface {
	// Get fetches content from a URL. Non-2xx statuses and timeouts are errors.
	Get(ctx context.Context, url string) (*Response, error)
	// Close releases resources
	Close() error
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
}

// Extractor turns a fetched document into rate candidates
type Extractor interface {
	// Extract returns the candidates found in body. On failure the slice is
	// empty and the error is an *ExtractionError.
	Extract(body []byte, spec ExtractorSpec) ([]float64, error)
}
