package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSentinelErrors verifies sentinel errors are defined
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check string
	}{
		{"ErrTimeout", ErrTimeout, "timeout"},
		{"ErrRateLimited", ErrRateLimited, "rate limited"},
		{"ErrNoMatch", ErrNoMatch, "no extractor produced a rate"},
		{"ErrInvalidSelector", ErrInvalidSelector, "invalid selector"},
		{"ErrInvalidPattern", ErrInvalidPattern, "invalid pattern"},
		{"ErrNoNodes", ErrNoNodes, "matched no nodes"},
		{"ErrNoCandidates", ErrNoCandidates, "no numeric candidates"},
		{"ErrNotJSON", ErrNotJSON, "not JSON"},
		{"ErrPathNotFound", ErrPathNotFound, "path not found"},
		{"ErrMissingField", ErrMissingField, "field path is required"},
		{"ErrUnsupportedExtractor", ErrUnsupportedExtractor, "unsupported extractor"},
		{"ErrExtractorPanic", ErrExtractorPanic, "panicked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Contains(t, tt.err.Error(), tt.check)
		})
	}
}

// TestFetchError tests FetchError formatting and unwrapping
func TestFetchError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := NewFetchError("https://example.com", 404, errors.New("HTTP 404"))
		assert.Equal(t, "fetch error for https://example.com: status 404: HTTP 404", err.Error())
	})

	t.Run("without status code", func(t *testing.T) {
		err := NewFetchError("https://example.com", 0, ErrTimeout)
		assert.Equal(t, "fetch error for https://example.com: timeout", err.Error())
		assert.ErrorIs(t, err, ErrTimeout)
	})
}

// TestIsRetryable tests retry classification
func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"retryable wrapper", &RetryableError{Err: errors.New("boom")}, true},
		{"429", NewFetchError("u", 429, nil), true},
		{"502", NewFetchError("u", 502, nil), true},
		{"503", NewFetchError("u", 503, nil), true},
		{"504", NewFetchError("u", 504, nil), true},
		{"cloudflare 522", NewFetchError("u", 522, nil), true},
		{"404", NewFetchError("u", 404, nil), false},
		{"500", NewFetchError("u", 500, nil), false},
		{"rate limited sentinel", fmt.Errorf("wrapped: %w", ErrRateLimited), true},
		{"timeout is terminal", NewFetchError("u", 0, ErrTimeout), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

// TestRetryableError tests RetryableError formatting
func TestRetryableError(t *testing.T) {
	err := &RetryableError{Err: errors.New("HTTP 429"), RetryAfter: 5}
	assert.Equal(t, "retryable error (retry after 5s): HTTP 429", err.Error())

	err = &RetryableError{Err: errors.New("HTTP 503")}
	assert.Equal(t, "retryable error: HTTP 503", err.Error())
}

// TestExtractionError tests ExtractionError formatting and unwrapping
func TestExtractionError(t *testing.T) {
	err := NewExtractionError(KindHTMLCSS, ErrInvalidSelector, "td:::")
	assert.Equal(t, "html_css extractor: invalid selector: td:::", err.Error())
	assert.ErrorIs(t, err, ErrInvalidSelector)

	var extractionErr *ExtractionError
	wrapped := fmt.Errorf("attempt 1: %w", err)
	assert.True(t, errors.As(wrapped, &extractionErr))
	assert.Equal(t, KindHTMLCSS, extractionErr.Extractor)

	noDetail := NewExtractionError(KindJSONAPI, ErrNotJSON, "")
	assert.Equal(t, "json_api extractor: payload is not JSON", noDetail.Error())
}

// TestValidationError tests ValidationError formatting
func TestValidationError(t *testing.T) {
	err := NewValidationError("source_url", "cannot be empty")
	assert.Equal(t, "validation error for source_url: cannot be empty", err.Error())
}
