package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrTimeout indicates a fetch exceeded its deadline
	ErrTimeout = errors.New("timeout")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")

	// ErrNoMatch indicates every extractor of a source was exhausted without a rate
	ErrNoMatch = errors.New("no extractor produced a rate")
)

// Extraction failure reasons
var (
	// ErrInvalidSelector indicates a CSS selector could not be compiled
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrInvalidPattern indicates a regular expression could not be compiled
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrNoNodes indicates a selector matched no document nodes
	ErrNoNodes = errors.New("selector matched no nodes")

	// ErrNoCandidates indicates no numeric candidate was found
	ErrNoCandidates = errors.New("no numeric candidates")

	// ErrNotJSON indicates the payload is not valid JSON
	ErrNotJSON = errors.New("payload is not JSON")

	// ErrPathNotFound indicates a field path could not be resolved
	ErrPathNotFound = errors.New("field path not found")

	// ErrMissingField indicates a json_api extractor has no field path
	ErrMissingField = errors.New("field path is required")

	// ErrUnsupportedExtractor indicates an extractor kind without an implementation
	ErrUnsupportedExtractor = errors.New("unsupported extractor")

	// ErrExtractorPanic indicates an extractor panicked and was recovered
	ErrExtractorPanic = errors.New("extractor panicked")
)

// FetchError represents an error during fetching
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 503, 502, 504:
			return true
		}
		// Cloudflare errors
		if fetchErr.StatusCode >= 520 && fetchErr.StatusCode <= 530 {
			return true
		}
	}

	return errors.Is(err, ErrRateLimited)
}

// ExtractionError describes why one extractor produced no candidates.
// It never escapes a source pipeline; the next extractor is tried instead.
type ExtractionError struct {
	Extractor ExtractorKind
	Detail    string
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s extractor: %v: %s", e.Extractor, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s extractor: %v", e.Extractor, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError
func NewExtractionError(kind ExtractorKind, err error, detail string) *ExtractionError {
	return &ExtractionError{
		Extractor: kind,
		Detail:    detail,
		Err:       err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
